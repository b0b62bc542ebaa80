package dataservice

import (
	"context"
	"fmt"

	"github.com/bergwerk/iceberg-data/models"
	"github.com/bergwerk/iceberg-data/store"
)

// UserFlatAnswers walks the four flat-topic collections and keeps, per
// document, only the answers the current user wrote. Ownership lives on
// each answers[] element, never on the document; documents left with no
// owned answers are dropped entirely. Survivors are tagged with their
// collection and id.
func (s *Service) UserFlatAnswers(ctx context.Context) ([]models.OwnedFlatQuestion, error) {
	defer s.timed("UserFlatAnswers")()

	user, ok := s.auth.CurrentUser()
	if !ok {
		return nil, ErrUnauthenticated
	}

	var results []models.OwnedFlatQuestion
	for _, topic := range models.FlatTopics {
		collection := models.QuestionCollection(topic)
		docs, err := s.store.Query(ctx, collection)
		if err != nil {
			s.log.Errorw("fetching flat questions", "collection", collection, "error", err)
			return nil, fmt.Errorf("fetching %s: %w", collection, err)
		}

		for _, doc := range docs {
			var question models.FlatQuestion
			if err := doc.DataTo(&question); err != nil {
				s.log.Warnw("skipping malformed question", "collection", collection, "id", doc.ID, "error", err)
				continue
			}

			var owned []models.FlatAnswer
			for _, answer := range question.Answers {
				if answer.CreatedBy == user.UID {
					owned = append(owned, answer)
				}
			}
			if len(owned) == 0 {
				continue
			}

			question.Answers = owned
			results = append(results, models.OwnedFlatQuestion{
				FlatQuestion: question,
				ID:           doc.ID,
				Collection:   collection,
			})
		}
	}
	return results, nil
}

// TreeAnswers reconstructs what the current user picked across one tree
// topic: its selection rows are joined back against the owning question
// documents. Question documents are fetched once per questionId and cached
// for the run; every selection row appends its resolved answer. A
// selection whose answerId no longer exists anywhere in the question's
// subquestions resolves to nothing and is skipped.
func (s *Service) TreeAnswers(ctx context.Context, questionCollection, selectionCollection string) ([]models.QuestionAnswers, error) {
	defer s.timed("TreeAnswers")()

	user, ok := s.auth.CurrentUser()
	if !ok {
		return nil, ErrUnauthenticated
	}

	rows, err := s.store.Query(ctx, selectionCollection, store.Filter{Field: "userId", Value: user.UID})
	if err != nil {
		s.log.Errorw("fetching selections", "collection", selectionCollection, "error", err)
		return nil, fmt.Errorf("fetching %s: %w", selectionCollection, err)
	}

	var results []models.QuestionAnswers
	entryIndex := make(map[string]int)                 // questionId -> index into results
	questions := make(map[string]*models.TreeQuestion) // per-run document memo

	for _, row := range rows {
		var sel models.Selection
		if err := row.DataTo(&sel); err != nil {
			s.log.Warnw("skipping malformed selection", "collection", selectionCollection, "id", row.ID, "error", err)
			continue
		}

		question, seen := questions[sel.QuestionID]
		if !seen {
			question = s.lookupTreeQuestion(ctx, questionCollection, sel.QuestionID)
			questions[sel.QuestionID] = question
		}
		if question == nil {
			continue
		}

		idx, ok := entryIndex[sel.QuestionID]
		if !ok {
			results = append(results, models.QuestionAnswers{
				QuestionID: sel.QuestionID,
				Question:   question.QuestionText,
			})
			idx = len(results) - 1
			entryIndex[sel.QuestionID] = idx
		}

		if answer, found := question.FindCandidate(sel.AnswerID); found {
			results[idx].Answers = append(results[idx].Answers, models.ResolvedAnswer{
				QuestionID: sel.QuestionID,
				AnswerID:   answer.ID,
				AnswerText: answer.AnswerText,
			})
		}
	}
	return results, nil
}

// lookupTreeQuestion fetches the question document owning questionID, or
// nil when it is missing or malformed. Lookup failures only drop that
// question from the aggregation; they never fail the whole run.
func (s *Service) lookupTreeQuestion(ctx context.Context, questionCollection, questionID string) *models.TreeQuestion {
	docs, err := s.store.Query(ctx, questionCollection, store.Filter{Field: "questionId", Value: questionID})
	if err != nil {
		s.log.Errorw("fetching question", "collection", questionCollection, "questionId", questionID, "error", err)
		return nil
	}
	if len(docs) == 0 {
		return nil
	}
	var question models.TreeQuestion
	if err := docs[0].DataTo(&question); err != nil {
		s.log.Warnw("skipping malformed question", "collection", questionCollection, "questionId", questionID, "error", err)
		return nil
	}
	return &question
}

// AllUserAnswers builds the combined "my answers" view: the flat topics'
// ownership-filtered documents followed by the feelings and needs tree
// aggregations.
func (s *Service) AllUserAnswers(ctx context.Context) (models.UserAnswers, error) {
	defer s.timed("AllUserAnswers")()

	flat, err := s.UserFlatAnswers(ctx)
	if err != nil {
		return models.UserAnswers{}, err
	}

	var tree []models.QuestionAnswers
	for _, topic := range models.TreeTopics {
		answers, err := s.TreeAnswers(ctx, models.QuestionCollection(topic), models.SelectionCollection(topic))
		if err != nil {
			return models.UserAnswers{}, err
		}
		tree = append(tree, answers...)
	}

	return models.UserAnswers{Flat: flat, Tree: tree}, nil
}
