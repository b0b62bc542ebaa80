package dataservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bergwerk/iceberg-data/models"
	"github.com/bergwerk/iceberg-data/store"
)

// AddDocument writes a new document stamped with createdAt and the current
// user's id. When id is empty the store assigns one. Offline, the write is
// queued under a pre-assigned id and the call returns that id together with
// a wrapped ErrOffline.
func (s *Service) AddDocument(ctx context.Context, collectionPath string, data map[string]any, id string) (string, error) {
	defer s.timed("AddDocument")()

	user, ok := s.auth.CurrentUser()
	if !ok {
		return "", ErrUnauthenticated
	}

	doc := make(map[string]any, len(data)+2)
	for k, v := range data {
		doc[k] = v
	}
	doc["createdAt"] = time.Now().UTC()
	doc["createdBy"] = user.UID

	if !s.probe.Online(ctx) {
		if id == "" {
			id = uuid.NewString()
		}
		if err := s.queuePending(ctx, collectionPath+"/"+id, pendingWrite{Kind: kindSet, Collection: collectionPath, DocID: id, Data: doc}); err != nil {
			return "", err
		}
		s.log.Infow("document queued for sync", "collection", collectionPath, "id", id)
		return id, fmt.Errorf("document queued for sync: %w", ErrOffline)
	}

	if id != "" {
		if err := s.store.SetDoc(ctx, collectionPath, id, doc); err != nil {
			s.log.Errorw("adding document", "collection", collectionPath, "id", id, "error", err)
			return "", fmt.Errorf("adding document: %w", err)
		}
		return id, nil
	}

	newID, err := s.store.AddDoc(ctx, collectionPath, doc)
	if err != nil {
		s.log.Errorw("adding document", "collection", collectionPath, "error", err)
		return "", fmt.Errorf("adding document: %w", err)
	}
	return newID, nil
}

// AppendAnswer appends one free-text answer to a flat question's answers
// array, stamped with the current user as author. Offline, the append is
// queued.
func (s *Service) AppendAnswer(ctx context.Context, collectionPath, docID string, answer models.FlatAnswer) error {
	defer s.timed("AppendAnswer")()

	user, ok := s.auth.CurrentUser()
	if !ok {
		return ErrUnauthenticated
	}
	answer.CreatedBy = user.UID

	if !s.probe.Online(ctx) {
		data, err := store.ToMap(answer)
		if err != nil {
			return err
		}
		if err := s.queuePending(ctx, uuid.NewString(), pendingWrite{Kind: kindAppend, Collection: collectionPath, DocID: docID, Field: "answers", Data: data}); err != nil {
			return err
		}
		s.log.Infow("answer queued for sync", "collection", collectionPath, "id", docID)
		return fmt.Errorf("answer queued for sync: %w", ErrOffline)
	}

	if err := s.store.AppendToArray(ctx, collectionPath, docID, "answers", answer); err != nil {
		s.log.Errorw("appending answer", "collection", collectionPath, "id", docID, "error", err)
		return fmt.Errorf("appending answer: %w", err)
	}
	return nil
}

// UpdateSubquestionText rewrites one subquestion's prompt inside a tree
// question. This is an admin-side content edit; it is not queued offline.
func (s *Service) UpdateSubquestionText(ctx context.Context, collectionPath, questionID, subquestionID, text string) error {
	defer s.timed("UpdateSubquestionText")()

	if _, ok := s.auth.CurrentUser(); !ok {
		return ErrUnauthenticated
	}
	if !s.probe.Online(ctx) {
		return ErrOffline
	}

	docs, err := s.store.Query(ctx, collectionPath, store.Filter{Field: "questionId", Value: questionID})
	if err != nil {
		s.log.Errorw("loading question", "collection", collectionPath, "questionId", questionID, "error", err)
		return fmt.Errorf("loading question: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("question %s: %w", questionID, store.ErrNotFound)
	}

	var question models.TreeQuestion
	if err := docs[0].DataTo(&question); err != nil {
		return err
	}

	updated := false
	for i := range question.Subquestions {
		if question.Subquestions[i].ID == subquestionID {
			question.Subquestions[i].SubquestionText = text
			updated = true
			break
		}
	}
	if !updated {
		return fmt.Errorf("subquestion %s: %w", subquestionID, store.ErrNotFound)
	}

	return s.store.UpdateDoc(ctx, collectionPath, docs[0].ID, map[string]any{"subquestions": question.Subquestions})
}

// GetDocument reads collection/id into dest, preferring the remote store
// and mirroring hits into the cache. Offline, or when the remote call
// fails, it falls back to the cached snapshot. The bool reports whether
// anything was found.
func (s *Service) GetDocument(ctx context.Context, collection, id string, dest any) (bool, error) {
	defer s.timed("GetDocument")()

	key := collection + "/" + id
	if s.probe.Online(ctx) {
		doc, err := s.store.GetDoc(ctx, collection, id)
		switch {
		case err == nil:
			if err := doc.DataTo(dest); err != nil {
				return false, err
			}
			if err := s.cache.SaveLocally(ctx, key, doc.Data); err != nil {
				s.log.Warnw("mirroring document", "path", key, "error", err)
			}
			return true, nil
		case errors.Is(err, store.ErrNotFound):
			// Absent remotely; the cache may still hold a snapshot.
		default:
			s.log.Errorw("getting document, falling back to cache", "path", key, "error", err)
		}
	}
	return s.cache.GetLocal(ctx, key, dest)
}

// GetUserData loads a user profile, cache first. Online misses are filled
// from the store and mirrored for future offline reads.
func (s *Service) GetUserData(ctx context.Context, uid string) (*models.User, error) {
	defer s.timed("GetUserData")()

	key := models.UserCacheKey(uid)

	var cached models.User
	ok, err := s.cache.GetLocal(ctx, key, &cached)
	if err != nil {
		s.log.Warnw("reading cached user", "uid", uid, "error", err)
	}
	if ok {
		return &cached, nil
	}

	if !s.probe.Online(ctx) {
		return nil, ErrOffline
	}

	doc, err := s.store.GetDoc(ctx, models.UsersCollection, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		s.log.Errorw("fetching user", "uid", uid, "error", err)
		return nil, fmt.Errorf("fetching user %s: %w", uid, err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	if err := s.cache.SaveLocally(ctx, key, doc.Data); err != nil {
		s.log.Warnw("mirroring user", "uid", uid, "error", err)
	}
	return &user, nil
}

// GetCollection fetches every document of a collection with its id.
func (s *Service) GetCollection(ctx context.Context, collection string) ([]store.Document, error) {
	defer s.timed("GetCollection")()

	if !s.probe.Online(ctx) {
		return nil, ErrOffline
	}
	docs, err := s.store.Query(ctx, collection)
	if err != nil {
		s.log.Errorw("getting collection", "collection", collection, "error", err)
		return nil, fmt.Errorf("getting collection %s: %w", collection, err)
	}
	return docs, nil
}

// SaveAuthState mirrors the current session into the cache so sign-in
// survives an offline restart.
func (s *Service) SaveAuthState(ctx context.Context) error {
	user, ok := s.auth.CurrentUser()
	if !ok {
		return ErrUnauthenticated
	}
	state := models.AuthState{UID: user.UID, Email: user.Email, LastLogin: time.Now().UTC()}
	return s.cache.SaveLocally(ctx, models.AuthStateKey, state)
}

// GetAuthState returns the locally mirrored session, or nil when none is
// stored.
func (s *Service) GetAuthState(ctx context.Context) (*models.AuthState, error) {
	var state models.AuthState
	ok, err := s.cache.GetLocal(ctx, models.AuthStateKey, &state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// VerifyAdmin reports whether uid belongs to an enabled admin. The cached
// adminAuth record answers first; otherwise the user document's isAdmin
// flag decides, and a positive answer is mirrored locally. Failures read
// as not-admin.
func (s *Service) VerifyAdmin(ctx context.Context, uid string) bool {
	defer s.timed("VerifyAdmin")()

	var saved models.AuthState
	if ok, err := s.cache.GetLocal(ctx, models.AdminAuthKey, &saved); err == nil && ok {
		if saved.UID == uid && saved.IsAdmin {
			return true
		}
	}

	if !s.probe.Online(ctx) {
		return false
	}

	doc, err := s.store.GetDoc(ctx, models.UsersCollection, uid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Errorw("verifying admin", "uid", uid, "error", err)
		}
		return false
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return false
	}

	isAdmin := user.IsAdmin && !user.IsDisabled
	if isAdmin {
		state := models.AuthState{UID: uid, Email: user.Email, IsAdmin: true, LastLogin: time.Now().UTC()}
		if err := s.cache.SaveLocally(ctx, models.AdminAuthKey, state); err != nil {
			s.log.Warnw("mirroring admin auth", "uid", uid, "error", err)
		}
	}
	return isAdmin
}

// ClearAdminAuth drops the locally mirrored admin record.
func (s *Service) ClearAdminAuth(ctx context.Context) error {
	return s.cache.Delete(ctx, models.AdminAuthKey)
}
