package models

// OwnedFlatQuestion is one flat-aggregation result: a question document
// whose answers have been filtered down to the current user's own
// submissions, tagged with the source collection and document id.
type OwnedFlatQuestion struct {
	FlatQuestion
	ID         string `json:"id"`
	Collection string `json:"collection"`
}

// ResolvedAnswer is one selection resolved against its tree question.
type ResolvedAnswer struct {
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId"`
	AnswerText string `json:"answerText"`
}

// QuestionAnswers is one tree-aggregation result: everything the user
// picked across a single question's subquestions.
type QuestionAnswers struct {
	QuestionID string           `json:"questionId"`
	Question   string           `json:"question"`
	Answers    []ResolvedAnswer `json:"answers"`
}

// UserAnswers is the combined "all my answers" view across every topic.
type UserAnswers struct {
	Flat []OwnedFlatQuestion `json:"flat"`
	Tree []QuestionAnswers   `json:"tree"`
}

// Items flattens the combined view into the single heterogeneous list the
// screens render: flat entries carry a collection tag, tree entries carry a
// questionId and no collection tag, so consumers dispatch on which is set.
func (u UserAnswers) Items() []any {
	items := make([]any, 0, len(u.Flat)+len(u.Tree))
	for _, f := range u.Flat {
		items = append(items, f)
	}
	for _, t := range u.Tree {
		items = append(items, t)
	}
	return items
}
