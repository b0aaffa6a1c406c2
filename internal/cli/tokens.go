package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/stormozov/vkdisk/internal/disk"
	"github.com/stormozov/vkdisk/internal/vk"
	"github.com/stormozov/vkdisk/pkg/kv"
	"github.com/stormozov/vkdisk/pkg/logger"
)

// Storage keys for the credentials and acknowledgments.
const (
	VKTokenKey   = "vkid_token"
	DiskTokenKey = "yandexToken"
	ConsentKey   = "cookiesConfirmed"
)

// VKTokenTTL is the stored lifetime of a VK access token.
const VKTokenTTL = time.Hour

// vkTokenSource reads the VK access token from the store at call time.
type vkTokenSource struct {
	store *kv.Store
}

// NewVKTokenSource returns a vk.TokenSource backed by the store.
func NewVKTokenSource(store *kv.Store) vk.TokenSource {
	return &vkTokenSource{store: store}
}

func (s *vkTokenSource) Token() (string, error) {
	token, found, err := s.store.Get(VKTokenKey)
	if err != nil {
		return "", err
	}
	if !found {
		return "", vk.ErrNoToken
	}
	return token, nil
}

// diskTokenSource reads the cloud OAuth token from the store at call
// time. When absent it prompts the user exactly once and persists the
// answer, so every later call (including concurrent batch uploads)
// finds the stored token.
type diskTokenSource struct {
	mu    sync.Mutex
	store *kv.Store
}

// NewDiskTokenSource returns a disk.TokenSource backed by the store.
func NewDiskTokenSource(store *kv.Store) disk.TokenSource {
	return &diskTokenSource{store: store}
}

func (s *diskTokenSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, found, err := s.store.Get(DiskTokenKey)
	if err != nil {
		return "", err
	}
	if found {
		return token, nil
	}

	prompt := &survey.Password{Message: "Enter your cloud storage OAuth token:"}
	if err := survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)); err != nil {
		return "", fmt.Errorf("%w: %s", disk.ErrNoToken, err)
	}

	if err := s.store.Set(DiskTokenKey, token); err != nil {
		return "", err
	}
	logger.Debug("Stored cloud storage OAuth token")
	return token, nil
}
