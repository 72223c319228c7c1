// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ducklauncher/duck/internal/fetch"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency caps the number of fetches in flight per batch.
const DefaultMaxConcurrency = 64

type (
	// Requirement is one artifact the provisioning run needs on disk.
	Requirement struct {
		// Name labels the artifact in logs and errors. LocalPath is used when empty.
		Name      string
		LocalPath string
		RemoteURL string
		// ExpectedSize is the declared byte length. A negative value only
		// requires the file to exist.
		ExpectedSize int64
	}

	// Report summarizes one completed batch.
	Report struct {
		Batch    string
		Required int
		Fetched  int
	}

	// Syncer runs batches of requirements against a Fetcher.
	Syncer struct {
		fetcher        fetch.Fetcher
		maxConcurrency int
		logger         *log.Logger
	}

	// SyncerOption configures a Syncer during construction.
	SyncerOption func(*Syncer)
)

// WithMaxConcurrency sets the per-batch worker cap. Values below 1 are ignored.
func WithMaxConcurrency(n int) SyncerOption {
	return func(s *Syncer) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// WithLogger sets the logger used for batch progress.
func WithLogger(l *log.Logger) SyncerOption {
	return func(s *Syncer) {
		s.logger = l
	}
}

// NewSyncer creates a Syncer that transfers files with f.
func NewSyncer(f fetch.Fetcher, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		fetcher:        f,
		maxConcurrency: DefaultMaxConcurrency,
		logger:         log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending returns the requirements whose local file is absent or has the wrong
// size, preserving order.
func Pending(reqs []Requirement) ([]Requirement, error) {
	var pending []Requirement
	for _, r := range reqs {
		info, err := os.Stat(r.LocalPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			pending = append(pending, r)
		case err != nil:
			return nil, fmt.Errorf("checking %s: %w", r.LocalPath, err)
		case info.IsDir():
			return nil, fmt.Errorf("checking %s: is a directory", r.LocalPath)
		case r.ExpectedSize >= 0 && info.Size() != r.ExpectedSize:
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// Sync fetches the pending subset of reqs. A fully populated cache makes no
// fetch calls. On failure the remaining transfers are cancelled and a
// *FetchError lists what failed.
func (s *Syncer) Sync(ctx context.Context, batch string, reqs []Requirement) (Report, error) {
	report := Report{Batch: batch, Required: len(reqs)}

	pending, err := Pending(reqs)
	if err != nil {
		return report, err
	}
	if len(pending) == 0 {
		s.logger.Debug("batch up to date", "batch", batch, "required", len(reqs))
		return report, nil
	}

	s.logger.Info("fetching", "batch", batch, "pending", len(pending), "required", len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(len(pending), s.maxConcurrency))

	var (
		mu     sync.Mutex
		failed []FailedItem
	)

	for _, r := range pending {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.fetcher.Fetch(gctx, r.RemoteURL, r.LocalPath); err != nil {
				// Transfers cut short by an earlier failure are not failures of their own.
				if gctx.Err() != nil && errors.Is(err, context.Canceled) && ctx.Err() == nil {
					return err
				}
				mu.Lock()
				failed = append(failed, FailedItem{Requirement: r, Err: err})
				mu.Unlock()
				return err
			}
			s.logger.Debug("fetched", "batch", batch, "artifact", r.label())
			return nil
		})
	}

	waitErr := g.Wait()
	if len(failed) > 0 {
		return report, &FetchError{Batch: batch, Items: failed}
	}
	if waitErr != nil {
		return report, fmt.Errorf("%s: %w", batch, waitErr)
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("%s: %w", batch, err)
	}

	report.Fetched = len(pending)
	return report, nil
}

func (r Requirement) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.LocalPath
}
