package main

import (
	"context"
	"fmt"

	"astbridge/internal/driver"
	"astbridge/internal/version"
	"astbridge/internal/xref"
)

// session holds the resources of one lowering command.
type session struct {
	cache *driver.DiskCache
	store *xref.Store
	runID string
}

func openSession(ctx context.Context, s *lowerSettings) (*session, error) {
	ss := &session{}
	if s.useCache {
		cache, err := driver.OpenDiskCache(s.cacheDir, "astbridge")
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		ss.cache = cache
	}
	if s.xrefPath != "" {
		store, err := xref.Open(s.xrefPath)
		if err != nil {
			return nil, err
		}
		ss.store = store
		if err := ss.newRun(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return ss, nil
}

// newRun starts a fresh index run; later units are recorded under it.
func (ss *session) newRun(ctx context.Context) error {
	if ss.store == nil {
		return nil
	}
	id, err := ss.store.BeginRun(ctx, version.Version)
	if err != nil {
		return err
	}
	ss.runID = id
	return nil
}

func (ss *session) Close() error {
	if ss.store != nil {
		return ss.store.Close()
	}
	return nil
}

func (ss *session) options(s *lowerSettings) driver.Options {
	return driver.Options{
		Jobs:           s.jobs,
		MaxDepth:       s.maxDepth,
		MaxDiagnostics: s.maxDiagnostics,
		Werror:         s.werror,
		Timings:        s.timings,
		Cache:          ss.cache,
		Index:          ss.store,
		RunID:          ss.runID,
	}
}
