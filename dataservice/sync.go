package dataservice

import (
	"context"

	"github.com/bergwerk/iceberg-data/models"
	"github.com/bergwerk/iceberg-data/store"
)

// pendingKeyPrefix namespaces queued offline writes in the cache.
const pendingKeyPrefix = "pending/"

const (
	kindSet       = "set"
	kindAppend    = "append"
	kindSelection = "selection"
)

// pendingWrite is one deferred write, serialized into the cache while
// offline and replayed by SyncPendingChanges.
type pendingWrite struct {
	Kind       string         `json:"kind"`
	Collection string         `json:"collection"`
	DocID      string         `json:"docId,omitempty"`
	Field      string         `json:"field,omitempty"`
	Data       map[string]any `json:"data"`
}

// queuePending stores a deferred write under pending/<key>. Replay order
// is not guaranteed, so writes whose latest value must win (selections,
// full document sets) queue under a key derived from their target: a
// repeat while still offline overwrites the pending entry in place instead
// of adding a second one that could replay stale. Only appends, which are
// never superseded, use a random key.
func (s *Service) queuePending(ctx context.Context, key string, w pendingWrite) error {
	return s.cache.SaveLocally(ctx, pendingKeyPrefix+key, w)
}

// SyncPendingChanges replays writes that were queued while offline. Entries
// that apply cleanly are removed; entries that fail stay queued for the
// next sync. Corrupt entries are dropped, since they can never replay.
func (s *Service) SyncPendingChanges(ctx context.Context) error {
	defer s.timed("SyncPendingChanges")()

	if !s.probe.Online(ctx) {
		return ErrOffline
	}

	keys, err := s.cache.Keys(ctx, pendingKeyPrefix)
	if err != nil {
		return err
	}

	for _, key := range keys {
		var w pendingWrite
		ok, err := s.cache.GetLocal(ctx, key, &w)
		if err != nil {
			s.log.Errorw("reading pending write", "key", key, "error", err)
			continue
		}
		if !ok {
			_ = s.cache.Delete(ctx, key)
			continue
		}

		if err := s.applyPending(ctx, w); err != nil {
			s.log.Errorw("replaying pending write", "key", key, "collection", w.Collection, "error", err)
			continue
		}
		if err := s.cache.Delete(ctx, key); err != nil {
			s.log.Warnw("removing synced pending write", "key", key, "error", err)
		}
	}
	return nil
}

func (s *Service) applyPending(ctx context.Context, w pendingWrite) error {
	switch w.Kind {
	case kindSet:
		return s.store.SetDoc(ctx, w.Collection, w.DocID, w.Data)
	case kindAppend:
		return s.store.AppendToArray(ctx, w.Collection, w.DocID, w.Field, w.Data)
	case kindSelection:
		var sel models.Selection
		if err := (store.Document{Data: w.Data}).DataTo(&sel); err != nil {
			return err
		}
		return s.applySelection(ctx, w.Collection, sel)
	default:
		s.log.Warnw("dropping pending write of unknown kind", "kind", w.Kind)
		return nil
	}
}
