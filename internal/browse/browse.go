package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stormozov/vkdisk/internal/disk"
	"github.com/stormozov/vkdisk/pkg/logger"
)

// listLimit caps how many recent uploads one listing request returns.
const listLimit = 100

// Storage is the slice of the cloud client the browser needs.
type Storage interface {
	ListRecent(ctx context.Context, limit int, mediaType string) ([]disk.FileRecord, error)
	Remove(ctx context.Context, path string) error
	Download(ctx context.Context, downloadURL, dir string) (string, error)
}

// Card is one listed upload with its metadata and controls.
type Card struct {
	Record  disk.FileRecord
	Deleted bool
}

// Session browses previously uploaded images and removes them. When the
// last card disappears the session closes itself.
type Session struct {
	mu      sync.Mutex
	storage Storage
	cards   []*Card
	open    bool
}

func NewSession(storage Storage) *Session {
	return &Session{storage: storage}
}

// Open loads the recent-uploads listing (image media type, application
// prefix) and opens the session.
func (s *Session) Open(ctx context.Context) error {
	records, err := s.storage.ListRecent(ctx, listLimit, "image")
	if err != nil {
		return fmt.Errorf("failed to list uploaded images: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = make([]*Card, 0, len(records))
	for _, record := range records {
		s.cards = append(s.cards, &Card{Record: record})
	}
	s.open = true
	return nil
}

// Close marks the session closed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// IsOpen reports whether the session is open.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Cards returns the visible cards, listing order.
func (s *Session) Cards() []*Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Len returns the number of visible cards.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// CanDeleteAll reports whether the bulk-delete control is offered: only
// from two cards up, a single card has its own delete control.
func (s *Session) CanDeleteAll() bool {
	return s.Len() >= 2
}

// Delete removes one uploaded file. On success the card is marked
// deleted and dropped; when the count reaches zero the session closes.
// On failure the card stays and the error is logged, nothing more.
func (s *Session) Delete(ctx context.Context, card *Card) error {
	err := s.storage.Remove(ctx, card.Record.Path)
	if err != nil {
		logger.Error("Failed to delete uploaded image", "path", card.Record.Path, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	card.Deleted = true
	s.removeCard(card)
	logger.Info("Deleted uploaded image", "path", card.Record.Path)
	if len(s.cards) == 0 {
		s.open = false
	}
	return nil
}

// DeleteAll issues one remove per visible card concurrently. Each card
// is dropped optimistically on its own success, independent of siblings;
// the aggregate error is built only after every outcome is known. The
// session closes only if zero cards remain. Explicit user confirmation
// is the caller's responsibility.
func (s *Session) DeleteAll(ctx context.Context) error {
	cards := s.Cards()
	total := len(cards)
	if total == 0 {
		return nil
	}

	var wg sync.WaitGroup
	failures := make([]error, total)
	for i, card := range cards {
		wg.Add(1)
		go func(i int, card *Card) {
			defer wg.Done()
			if err := s.Delete(ctx, card); err != nil {
				failures[i] = fmt.Errorf("%s: %w", card.Record.Path, err)
			}
		}(i, card)
	}
	wg.Wait()

	var failed []error
	for _, err := range failures {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d deletions failed: %w", len(failed), total, errors.Join(failed...))
}

// Download saves one uploaded file into dir via its download URL and
// returns the local path.
func (s *Session) Download(ctx context.Context, card *Card, dir string) (string, error) {
	if card.Record.DownloadURL == "" {
		return "", fmt.Errorf("no download URL for %s", card.Record.Path)
	}
	return s.storage.Download(ctx, card.Record.DownloadURL, dir)
}

// removeCard assumes s.mu is held.
func (s *Session) removeCard(card *Card) {
	for i, c := range s.cards {
		if c == card {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return
		}
	}
}
