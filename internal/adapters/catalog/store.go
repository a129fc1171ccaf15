// Package catalog loads pattern and yarn data and serves immutable
// snapshots of it.
//
// Sources (JSON, CSV, SQLite) produce a Snapshot; the Store publishes
// the latest one atomically so readers never observe a half-loaded
// catalog. Reloading swaps the whole snapshot in one step.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hobbyloop/skein/pkg/logger"
	"github.com/hobbyloop/skein/pkg/metrics"
)

// Store holds the current catalog snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]
	log     logger.Logger
}

// NewStore constructs an empty store. Snapshot returns ErrNotLoaded
// until the first Swap or Load.
func NewStore() *Store {
	return &Store{log: logger.Get().Named("catalog")}
}

// Swap publishes a snapshot as the current catalog.
func (s *Store) Swap(ctx context.Context, snap *Snapshot) {
	s.current.Store(snap)
	metrics.UpdateCatalogPatterns(len(snap.Patterns()))
	metrics.UpdateCatalogYarns(len(snap.Yarns()))
	s.log.Info(ctx, "catalog swapped",
		logger.String("snapshot_id", snap.ID().String()),
		logger.String("source", snap.Source()),
		logger.Int("patterns", len(snap.Patterns())),
		logger.Int("yarns", len(snap.Yarns())),
	)
}

// Snapshot returns the current catalog.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Load reads the source and publishes the resulting snapshot.
func (s *Store) Load(ctx context.Context, src Source) (*Snapshot, error) {
	snap, err := Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.Swap(ctx, snap)
	return snap, nil
}
