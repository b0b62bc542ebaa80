package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bergwerk/iceberg-data/store"
)

func TestGetDocNotFound(t *testing.T) {
	s := New()
	_, err := s.GetDoc(context.Background(), "users", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetAndGetDoc(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetDoc(ctx, "users", "u1", map[string]any{"name": "Mara"}))

	doc, err := s.GetDoc(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", doc.ID)
	assert.Equal(t, "Mara", doc.Data["name"])
}

func TestQueryConjunction(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetDoc(ctx, "rows", "r1", map[string]any{"questionId": "q1", "userId": "u1"}))
	require.NoError(t, s.SetDoc(ctx, "rows", "r2", map[string]any{"questionId": "q1", "userId": "u2"}))
	require.NoError(t, s.SetDoc(ctx, "rows", "r3", map[string]any{"questionId": "q2", "userId": "u1"}))

	docs, err := s.Query(ctx, "rows",
		store.Filter{Field: "questionId", Value: "q1"},
		store.Filter{Field: "userId", Value: "u1"},
	)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "r1", docs[0].ID)

	all, err := s.Query(ctx, "rows")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateDocMergesFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetDoc(ctx, "rows", "r1", map[string]any{"answerId": "a1", "userId": "u1"}))
	require.NoError(t, s.UpdateDoc(ctx, "rows", "r1", map[string]any{"answerId": "a2"}))

	doc, err := s.GetDoc(ctx, "rows", "r1")
	require.NoError(t, err)
	assert.Equal(t, "a2", doc.Data["answerId"])
	assert.Equal(t, "u1", doc.Data["userId"])
}

func TestAppendToArray(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetDoc(ctx, "questions", "q1", map[string]any{"question": "why"}))
	require.NoError(t, s.AppendToArray(ctx, "questions", "q1", "answers", map[string]any{"answerText": "x"}))
	require.NoError(t, s.AppendToArray(ctx, "questions", "q1", "answers", map[string]any{"answerText": "y"}))

	doc, err := s.GetDoc(ctx, "questions", "q1")
	require.NoError(t, err)
	answers, ok := doc.Data["answers"].([]any)
	require.True(t, ok)
	assert.Len(t, answers, 2)
}

func TestFaultInjection(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := assert.AnError

	s.Err = boom
	_, err := s.Query(ctx, "rows")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Probe(ctx), boom)

	s.Err = nil
	s.ProbeErr = boom
	assert.ErrorIs(t, s.Probe(ctx), boom)
	_, err = s.Query(ctx, "rows")
	assert.NoError(t, err)
}

func TestDocumentsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SetDoc(ctx, "users", "u1", map[string]any{"name": "Mara"}))

	doc, err := s.GetDoc(ctx, "users", "u1")
	require.NoError(t, err)
	doc.Data["name"] = "mutated"

	again, err := s.GetDoc(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mara", again.Data["name"])
}
