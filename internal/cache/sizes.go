// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ducklauncher/duck/internal/fetch"
	"github.com/ducklauncher/duck/pkg/manifest"
	"github.com/ducklauncher/duck/pkg/resolve"

	"golang.org/x/sync/errgroup"
)

// SizeLookup returns sizes learned on earlier runs, keyed by raw coordinate.
type SizeLookup interface {
	KnownSize(coordinate string) (int64, bool)
}

// MeasureSizes returns the byte length of every Maven-derived library in set.
// Sizes found in known are reused; every other entry is looked up exactly once.
// Any lookup failure fails the run with a *FetchError.
func (s *Syncer) MeasureSizes(ctx context.Context, lengths fetch.SizeReader, set *resolve.Set, known SizeLookup) (map[string]int64, error) {
	sizes := make(map[string]int64)
	var unresolved []Requirement

	for _, e := range set.Entries() {
		m, ok := e.Library.Source.(manifest.MavenCoordinate)
		if !ok {
			continue
		}
		if known != nil {
			if size, ok := known.KnownSize(e.Library.Coordinate); ok {
				sizes[e.Library.Coordinate] = size
				continue
			}
		}
		unresolved = append(unresolved, Requirement{
			Name:         e.Library.Coordinate,
			RemoteURL:    m.URL,
			ExpectedSize: manifest.UnknownSize,
		})
	}
	if len(unresolved) == 0 {
		return sizes, nil
	}

	s.logger.Info("probing library sizes", "count", len(unresolved))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(len(unresolved), s.maxConcurrency))

	var (
		mu     sync.Mutex
		failed []FailedItem
	)
	for _, r := range unresolved {
		g.Go(func() error {
			size, err := lengths.ContentLength(gctx, r.RemoteURL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil && errors.Is(err, context.Canceled) && ctx.Err() == nil {
					return err
				}
				failed = append(failed, FailedItem{Requirement: r, Err: err})
				return err
			}
			sizes[r.Name] = size
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if len(failed) == 0 {
			return nil, fmt.Errorf("size lookup: %w", err)
		}
		return nil, &FetchError{Batch: "size lookup", Items: failed}
	}
	return sizes, nil
}
