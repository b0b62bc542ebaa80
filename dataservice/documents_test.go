package dataservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bergwerk/iceberg-data/models"
	"github.com/bergwerk/iceberg-data/store"
)

func TestGetUserDataPrefersCache(t *testing.T) {
	svc, st, c, _ := newTestService(false)
	ctx := context.Background()

	cached := models.User{Name: "Mara", Email: "mara@example.com"}
	require.NoError(t, c.SaveLocally(ctx, models.UserCacheKey("u1"), cached))

	user, err := svc.GetUserData(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mara", user.Name)
	assert.Empty(t, st.Calls(), "offline cached read must not touch the store")
}

func TestGetUserDataFillsAndMirrors(t *testing.T) {
	svc, st, c, _ := newTestService(true)
	ctx := context.Background()

	require.NoError(t, st.SetDoc(ctx, models.UsersCollection, "u1", models.User{
		Name: "Mara", Email: "mara@example.com",
	}))

	user, err := svc.GetUserData(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mara", user.Name)

	var mirrored models.User
	ok, err := c.GetLocal(ctx, models.UserCacheKey("u1"), &mirrored)
	require.NoError(t, err)
	require.True(t, ok, "remote hit must be mirrored locally")
	assert.Equal(t, "Mara", mirrored.Name)
}

func TestGetUserDataOfflineWithoutCache(t *testing.T) {
	svc, _, _, _ := newTestService(false)

	_, err := svc.GetUserData(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrOffline)
}

func TestGetDocumentFallsBackOnRemoteFailure(t *testing.T) {
	svc, st, c, _ := newTestService(true)
	ctx := context.Background()

	require.NoError(t, c.SaveLocally(ctx, "body-questions/b1", models.FlatQuestion{Question: "cached"}))
	st.Err = errors.New("permission denied")

	var q models.FlatQuestion
	found, err := svc.GetDocument(ctx, "body-questions", "b1", &q)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "cached", q.Question)
}

func TestGetDocumentMissEverywhere(t *testing.T) {
	svc, _, _, _ := newTestService(true)

	var q models.FlatQuestion
	found, err := svc.GetDocument(context.Background(), "body-questions", "nope", &q)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAddDocumentStampsAuthor(t *testing.T) {
	svc, st, _, _ := newTestService(true)
	ctx := context.Background()

	id, err := svc.AddDocument(ctx, "thoughts-questions", map[string]any{"question": "why"}, "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := st.GetDoc(ctx, "thoughts-questions", id)
	require.NoError(t, err)
	assert.Equal(t, "why", doc.Data["question"])
	assert.Equal(t, "u1", doc.Data["createdBy"])
	assert.NotEmpty(t, doc.Data["createdAt"])
}

func TestAddDocumentWithExplicitID(t *testing.T) {
	svc, st, _, _ := newTestService(true)
	ctx := context.Background()

	id, err := svc.AddDocument(ctx, "thoughts-questions", map[string]any{"question": "why"}, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)
	assert.Equal(t, 1, st.Len("thoughts-questions"))
}

func TestAppendAnswerOfflineQueuesAndSyncs(t *testing.T) {
	svc, st, _, probe := newTestService(true)
	ctx := context.Background()

	require.NoError(t, st.SetDoc(ctx, "body-questions", "b1", models.FlatQuestion{Question: "where"}))

	probe.online = false
	err := svc.AppendAnswer(ctx, "body-questions", "b1", models.FlatAnswer{AnswerText: "jaw"})
	assert.ErrorIs(t, err, ErrOffline)

	probe.online = true
	require.NoError(t, svc.SyncPendingChanges(ctx))

	doc, err := st.GetDoc(ctx, "body-questions", "b1")
	require.NoError(t, err)
	var q models.FlatQuestion
	require.NoError(t, doc.DataTo(&q))
	require.Len(t, q.Answers, 1)
	assert.Equal(t, "jaw", q.Answers[0].AnswerText)
	assert.Equal(t, "u1", q.Answers[0].CreatedBy, "queued answers keep their author stamp")
}

func TestUpdateSubquestionText(t *testing.T) {
	svc, st, _, _ := newTestService(true)
	ctx := context.Background()

	require.NoError(t, st.SetDoc(ctx, "feelings-questions", "doc1", models.TreeQuestion{
		QuestionID: "Q1",
		Subquestions: []models.Subquestion{
			{ID: "S1", SubquestionText: "old"},
			{ID: "S2", SubquestionText: "keep"},
		},
	}))

	require.NoError(t, svc.UpdateSubquestionText(ctx, "feelings-questions", "Q1", "S1", "new"))

	doc, err := st.GetDoc(ctx, "feelings-questions", "doc1")
	require.NoError(t, err)
	var q models.TreeQuestion
	require.NoError(t, doc.DataTo(&q))
	assert.Equal(t, "new", q.Subquestions[0].SubquestionText)
	assert.Equal(t, "keep", q.Subquestions[1].SubquestionText)
}

func TestUpdateSubquestionTextUnknownSubquestion(t *testing.T) {
	svc, st, _, _ := newTestService(true)
	ctx := context.Background()

	require.NoError(t, st.SetDoc(ctx, "feelings-questions", "doc1", models.TreeQuestion{
		QuestionID:   "Q1",
		Subquestions: []models.Subquestion{{ID: "S1"}},
	}))

	err := svc.UpdateSubquestionText(ctx, "feelings-questions", "Q1", "missing", "new")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetCollectionOffline(t *testing.T) {
	svc, _, _, _ := newTestService(false)

	_, err := svc.GetCollection(context.Background(), "body-questions")
	assert.ErrorIs(t, err, ErrOffline)
}

func TestAuthStateRoundTrip(t *testing.T) {
	svc, _, _, _ := newTestService(true)
	ctx := context.Background()

	state, err := svc.GetAuthState(ctx)
	require.NoError(t, err)
	assert.Nil(t, state)

	require.NoError(t, svc.SaveAuthState(ctx))

	state, err = svc.GetAuthState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "u1", state.UID)
	assert.Equal(t, "u1@example.com", state.Email)
	assert.False(t, state.LastLogin.IsZero())
}

func TestVerifyAdminFromUserDocument(t *testing.T) {
	svc, st, c, _ := newTestService(true)
	ctx := context.Background()

	require.NoError(t, st.SetDoc(ctx, models.UsersCollection, "u1", models.User{
		Name: "Mara", IsAdmin: true,
	}))

	assert.True(t, svc.VerifyAdmin(ctx, "u1"))

	// The positive answer is mirrored, so a later offline check still
	// passes.
	var saved models.AuthState
	ok, err := c.GetLocal(ctx, models.AdminAuthKey, &saved)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, saved.IsAdmin)
}

func TestVerifyAdminDisabledAccount(t *testing.T) {
	svc, st, _, _ := newTestService(true)
	ctx := context.Background()

	require.NoError(t, st.SetDoc(ctx, models.UsersCollection, "u1", models.User{
		IsAdmin: true, IsDisabled: true,
	}))

	assert.False(t, svc.VerifyAdmin(ctx, "u1"))
}

func TestVerifyAdminCachedRecordOffline(t *testing.T) {
	svc, _, c, _ := newTestService(false)
	ctx := context.Background()

	require.NoError(t, c.SaveLocally(ctx, models.AdminAuthKey, models.AuthState{UID: "u1", IsAdmin: true}))

	assert.True(t, svc.VerifyAdmin(ctx, "u1"))
	assert.False(t, svc.VerifyAdmin(ctx, "someone-else"))

	require.NoError(t, svc.ClearAdminAuth(ctx))
	assert.False(t, svc.VerifyAdmin(ctx, "u1"))
}

func TestCheckStoreConnection(t *testing.T) {
	svc, st, _, _ := newTestService(true)
	ctx := context.Background()

	assert.True(t, svc.CheckStoreConnection(ctx))

	st.ProbeErr = errors.New("unavailable")
	assert.False(t, svc.CheckStoreConnection(ctx))
}

func TestVerifyAdminUnknownUser(t *testing.T) {
	svc, _, _, _ := newTestService(true)
	assert.False(t, svc.VerifyAdmin(context.Background(), "nobody"))
}
