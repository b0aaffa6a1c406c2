package uploader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/stormozov/vkdisk/internal/disk"
	"github.com/stormozov/vkdisk/internal/vk"
	"github.com/stormozov/vkdisk/pkg/logger"
)

// ErrEmptyPath marks a row submitted without a destination path. No
// network call is made for such a row.
var ErrEmptyPath = errors.New("destination path is empty")

// ErrRowBusy is returned when a row is submitted while its previous
// upload is still outstanding.
var ErrRowBusy = errors.New("upload already in progress for this row")

// Status is the lifecycle of one upload row.
type Status int

const (
	Pending Status = iota
	Uploading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Uploading:
		return "uploading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Uploader is the slice of the cloud client the workflow needs.
type Uploader interface {
	Upload(ctx context.Context, destPath, sourceURL string) (*disk.Link, error)
}

// Row is one editable destination-path entry of the upload dialog.
type Row struct {
	SourceURL string
	Path      string
	Status    Status
	Err       error
}

// Batch drives the upload dialog over a set of selected images. Rows are
// ordered most-recently-added first. A row that fails stays resubmittable
// without restarting the batch; a row that succeeds is removed.
type Batch struct {
	mu      sync.Mutex
	rows    []*Row
	uploads Uploader
	open    bool
}

// NewBatch builds the dialog rows from the current selection, in reverse
// insertion order.
func NewBatch(uploads Uploader, images []vk.ImageDescriptor) *Batch {
	rows := make([]*Row, 0, len(images))
	for i := len(images) - 1; i >= 0; i-- {
		rows = append(rows, &Row{SourceURL: images[i].URL, Status: Pending})
	}
	return &Batch{rows: rows, uploads: uploads}
}

// Open marks the dialog open.
func (b *Batch) Open() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = true
}

// Close marks the dialog closed.
func (b *Batch) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
}

// IsOpen reports whether the dialog is open.
func (b *Batch) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Rows returns the current rows, dialog order.
func (b *Batch) Rows() []*Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Row, len(b.rows))
	copy(out, b.rows)
	return out
}

// Len returns the number of rows still in the dialog.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rows)
}

// Empty reports whether every row has left the dialog.
func (b *Batch) Empty() bool {
	return b.Len() == 0
}

// RowStatus reads one row's status under the batch lock.
func (b *Batch) RowStatus(row *Row) Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return row.Status
}

// SetPath updates the destination path of one row.
func (b *Batch) SetPath(row *Row, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	row.Path = path
}

// StampNames fills every row's path with a timestamp-derived name and a
// zero-padded sequence counter in visual row order. Nothing is submitted.
func (b *Batch) StampNames(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stamp := now.Format("2006-01-02_15-04")
	for i, row := range b.rows {
		row.Path = fmt.Sprintf("%s_%02d", stamp, i+1)
	}
}

// Submit uploads one row. The path is trimmed first; an empty path marks
// the row failed without any network call. While the upload is
// outstanding the row is locked against duplicate submission. On failure
// the row unlocks and may be retried as-is; on success it is removed
// from the dialog.
func (b *Batch) Submit(ctx context.Context, row *Row) error {
	b.mu.Lock()
	if !b.contains(row) {
		b.mu.Unlock()
		return errors.New("row is no longer part of the batch")
	}
	if row.Status == Uploading {
		b.mu.Unlock()
		return ErrRowBusy
	}

	row.Path = strings.TrimSpace(row.Path)
	if row.Path == "" {
		row.Status = Failed
		row.Err = ErrEmptyPath
		b.mu.Unlock()
		return ErrEmptyPath
	}

	row.Status = Uploading
	row.Err = nil
	path, sourceURL := row.Path, row.SourceURL
	b.mu.Unlock()

	_, err := b.uploads.Upload(ctx, path, sourceURL)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		row.Status = Failed
		row.Err = err
		logger.Error("Upload failed", "path", path, "error", err)
		return err
	}

	row.Status = Succeeded
	b.remove(row)
	logger.Info("Upload accepted by the cloud", "path", path)
	return nil
}

// SubmitAll runs the per-row procedure for every row concurrently and
// waits for every outcome before reporting. One row's failure never
// cancels or blocks another row's completion; failures are aggregated
// into one error after all outstanding calls settle.
func (b *Batch) SubmitAll(ctx context.Context) error {
	rows := b.Rows()
	total := len(rows)
	if total == 0 {
		return nil
	}

	var wg sync.WaitGroup
	failures := make([]error, total)
	for i, row := range rows {
		wg.Add(1)
		go func(i int, row *Row) {
			defer wg.Done()
			if err := b.Submit(ctx, row); err != nil {
				failures[i] = fmt.Errorf("%s: %w", row.SourceURL, err)
			}
		}(i, row)
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
	return fmt.Errorf("%d of %d uploads failed: %w", len(failed), total, errors.Join(failed...))
}

// contains and remove assume b.mu is held.
func (b *Batch) contains(row *Row) bool {
	for _, r := range b.rows {
		if r == row {
			return true
		}
	}
	return false
}

func (b *Batch) remove(row *Row) {
	for i, r := range b.rows {
		if r == row {
			b.rows = append(b.rows[:i], b.rows[i+1:]...)
			return
		}
	}
}
