package dataservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bergwerk/iceberg-data/models"
	"github.com/bergwerk/iceberg-data/store"
)

// selectionNamespace seeds the deterministic document ids under which new
// selections are stored. Changing it would orphan existing rows.
var selectionNamespace = uuid.MustParse("6f1c24b8-90d3-4e0a-b6a5-2d3f8c7e914a")

// SaveSelection records which candidate answer the user picked for a
// subquestion, keeping at most one stored row per
// (userId, questionId, subquestionId). A repeat pick with a different
// answerId updates the row in place; an identical pick is a no-op. Offline,
// the selection is queued and the call returns ErrOffline wrapped so the
// caller knows it was deferred.
func (s *Service) SaveSelection(ctx context.Context, collectionPath string, sel models.Selection) error {
	defer s.timed("SaveSelection")()

	user, ok := s.auth.CurrentUser()
	if !ok {
		return ErrUnauthenticated
	}
	if sel.UserID == "" {
		sel.UserID = user.UID
	}

	if !s.probe.Online(ctx) {
		data, err := store.ToMap(sel)
		if err != nil {
			return err
		}
		if err := s.queuePending(ctx, selectionDocID(collectionPath, sel), pendingWrite{Kind: kindSelection, Collection: collectionPath, Data: data}); err != nil {
			return err
		}
		s.log.Infow("selection queued for sync", "collection", collectionPath, "questionId", sel.QuestionID)
		return fmt.Errorf("selection queued for sync: %w", ErrOffline)
	}

	if err := s.applySelection(ctx, collectionPath, sel); err != nil {
		s.log.Errorw("saving selection", "collection", collectionPath, "questionId", sel.QuestionID, "error", err)
		return fmt.Errorf("saving selection: %w", err)
	}
	return nil
}

// applySelection is the online upsert: query for an existing row by the
// composite key, then create or patch. New rows get a deterministic id
// derived from the key, so two racing first-picks collide onto the same
// document instead of duplicating it. The query still matches legacy rows
// stored under server-generated ids.
func (s *Service) applySelection(ctx context.Context, collectionPath string, sel models.Selection) error {
	docs, err := s.store.Query(ctx, collectionPath,
		store.Filter{Field: "questionId", Value: sel.QuestionID},
		store.Filter{Field: "subquestionId", Value: sel.SubquestionID},
		store.Filter{Field: "userId", Value: sel.UserID},
	)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		return s.store.SetDoc(ctx, collectionPath, selectionDocID(collectionPath, sel), sel)
	}

	existing := docs[0]
	var current models.Selection
	if err := existing.DataTo(&current); err != nil {
		return err
	}
	if current.AnswerID == sel.AnswerID {
		return nil
	}
	return s.store.UpdateDoc(ctx, collectionPath, existing.ID, map[string]any{"answerId": sel.AnswerID})
}

func selectionDocID(collectionPath string, sel models.Selection) string {
	key := collectionPath + "|" + sel.QuestionID + "|" + sel.SubquestionID + "|" + sel.UserID
	return uuid.NewSHA1(selectionNamespace, []byte(key)).String()
}
