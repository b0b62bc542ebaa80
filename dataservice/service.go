// Package dataservice is the data-access façade between the screens and the
// remote document store. It composes the connectivity probe, the local
// cache and the store client into the higher-level operations the app
// consumes: cached profile reads, question writes, selection upserts and
// the cross-collection answer aggregation.
package dataservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bergwerk/iceberg-data/auth"
	"github.com/bergwerk/iceberg-data/cache"
	"github.com/bergwerk/iceberg-data/netcheck"
	"github.com/bergwerk/iceberg-data/store"
)

var (
	// ErrUnauthenticated is returned by write-class operations when no user
	// is signed in. It is raised before any network attempt.
	ErrUnauthenticated = errors.New("dataservice: no authenticated user")

	// ErrOffline reports that the connectivity probe found no usable
	// network path. Writes wrapped with it have been queued for
	// SyncPendingChanges; reads wrapped with it had no cached fallback.
	ErrOffline = errors.New("dataservice: offline")
)

// Service holds the injected collaborators. It keeps no other state
// between calls; everything durable lives in the cache or the store.
type Service struct {
	store store.Store
	cache cache.Cache
	probe netcheck.Probe
	auth  auth.Provider
	log   *zap.SugaredLogger
}

// New wires a Service from its collaborators. A nil logger means silent.
func New(st store.Store, c cache.Cache, p netcheck.Probe, a auth.Provider, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{store: st, cache: c, probe: p, auth: a, log: log}
}

// CheckStoreConnection reports whether the remote store answers end to
// end, permissions included. Screens use it to surface a connection
// banner; failures read as unreachable rather than erroring.
func (s *Service) CheckStoreConnection(ctx context.Context) bool {
	if err := s.store.Probe(ctx); err != nil {
		s.log.Warnw("store unreachable", "error", err)
		return false
	}
	return true
}

// timed logs the wall time of an operation when deferred.
func (s *Service) timed(op string) func() {
	start := time.Now()
	return func() {
		s.log.Debugw("operation finished", "op", op, "durationMs", time.Since(start).Milliseconds())
	}
}
