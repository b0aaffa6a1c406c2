package vk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token() (string, error) { return string(s), nil }

type noTokens struct{}

func (noTokens) Token() (string, error) { return "", ErrNoToken }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "5.199", staticTokens("test-token"))
}

func TestFetchImages_PicksLargestVariant(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/photos.get", r.URL.Path)
		assert.Equal(t, "12345", r.URL.Query().Get("owner_id"))
		assert.Equal(t, "profile", r.URL.Query().Get("album_id"))
		assert.Equal(t, "test-token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "5.199", r.URL.Query().Get("v"))

		w.Write([]byte(`{"response":{"items":[
			{"id":1,"sizes":[
				{"url":"a-s","width":75,"height":50},
				{"url":"a-l","width":1200,"height":800},
				{"url":"a-m","width":600,"height":400}
			]},
			{"id":2,"sizes":[
				{"url":"b-m","width":600,"height":400},
				{"url":"b-l","width":800,"height":1200},
				{"url":"b-s","width":75,"height":50}
			]}
		]}}`))
	})

	images, err := client.FetchImages(context.Background(), "12345")
	require.NoError(t, err)

	require.Len(t, images, 2)
	assert.Equal(t, ImageDescriptor{ID: 1, URL: "a-l", Width: 1200, Height: 800}, images[0])
	assert.Equal(t, ImageDescriptor{ID: 2, URL: "b-l", Width: 800, Height: 1200}, images[1])
}

func TestFetchImages_RemoteError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		message string
		want    string
	}{
		{"unknown error", 1, "Unknown error occurred", "unknown error"},
		{"server error", 10, "Internal server error", "internal error"},
		{"access denied", 15, "Access denied", "deleted or blocked"},
		{"deactivated", 18, "User was deleted or banned", "deleted or blocked"},
		{"private profile", 30, "This profile is private", "private"},
		{"unmapped code", 113, "Invalid user id", "code 113"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error":{"error_code":` +
					strconv.Itoa(tt.code) + `,"error_msg":"` + tt.message + `"}}`))
			})

			_, err := client.FetchImages(context.Background(), "1")
			var remoteErr *RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.code, remoteErr.Code)
			assert.Equal(t, tt.message, remoteErr.Message)
			assert.Contains(t, remoteErr.UserMessage(), tt.want)
		})
	}
}

func TestFetchImages_InvalidResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no envelope", `{"something":"else"}`},
		{"items missing", `{"response":{}}`},
		{"items not a list", `{"response":{"items":{"id":1}}}`},
		{"items null", `{"response":{"items":null}}`},
		{"not json", `<html>garbage</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.FetchImages(context.Background(), "1")
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestFetchImages_NoToken(t *testing.T) {
	requested := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "5.199", noTokens{})
	_, err := client.FetchImages(context.Background(), "1")

	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, requested, "no request should be issued without a token")
}

func TestFetchImages_SkipsRecordsWithoutSizes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"items":[
			{"id":1,"sizes":[]},
			{"id":2,"sizes":[{"url":"b","width":10,"height":10}]}
		]}}`))
	})

	images, err := client.FetchImages(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, int64(2), images[0].ID)
}

func TestLargestSize(t *testing.T) {
	t.Run("single variant returned unchanged", func(t *testing.T) {
		only := Size{URL: "u", Width: 3, Height: 4}
		assert.Equal(t, only, LargestSize([]Size{only}))
	})

	t.Run("maximum area wins", func(t *testing.T) {
		got := LargestSize([]Size{
			{URL: "small", Width: 10, Height: 10},
			{URL: "big", Width: 100, Height: 90},
			{URL: "tall", Width: 20, Height: 300},
		})
		assert.Equal(t, "big", got.URL)
	})

	t.Run("tie keeps first encountered", func(t *testing.T) {
		got := LargestSize([]Size{
			{URL: "first", Width: 20, Height: 30},
			{URL: "second", Width: 30, Height: 20},
		})
		assert.Equal(t, "first", got.URL)
	})
}

func TestValidateOwnerID(t *testing.T) {
	assert.NoError(t, ValidateOwnerID("12345"))
	assert.Error(t, ValidateOwnerID("abc"))
	assert.Error(t, ValidateOwnerID("12a45"))
	assert.Error(t, ValidateOwnerID(""))
	assert.Error(t, ValidateOwnerID("-1"))
}
