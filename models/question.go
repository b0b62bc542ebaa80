package models

import "time"

// FlatQuestion is the document shape used by the body, sos, knowledge and
// thoughts collections: one free-text question whose answers are appended in
// place. Each answer carries its own author; ownership is never at the
// document level.
type FlatQuestion struct {
	Question  string       `json:"question" firestore:"question" bson:"question"`
	Answers   []FlatAnswer `json:"answers" firestore:"answers" bson:"answers"`
	CreatedAt time.Time    `json:"createdAt,omitempty" firestore:"createdAt,omitempty" bson:"createdAt,omitempty"`
	CreatedBy string       `json:"createdBy,omitempty" firestore:"createdBy,omitempty" bson:"createdBy,omitempty"`
}

// FlatAnswer is one free-text submission inside a FlatQuestion.
type FlatAnswer struct {
	AnswerText string `json:"answerText" firestore:"answerText" bson:"answerText"`
	CreatedBy  string `json:"createdBy" firestore:"createdBy" bson:"createdBy"`
}

// TreeQuestion is the document shape used by the feelings and needs
// collections: a fixed two-level tree of subquestions, each carrying a fixed
// set of selectable candidate answers. Users pick candidates; they do not
// write free text here.
type TreeQuestion struct {
	QuestionText string        `json:"questionText" firestore:"questionText" bson:"questionText"`
	QuestionID   string        `json:"questionId" firestore:"questionId" bson:"questionId"`
	Subquestions []Subquestion `json:"subquestions" firestore:"subquestions" bson:"subquestions"`
}

type Subquestion struct {
	ID              string            `json:"id" firestore:"id" bson:"id"`
	SubquestionText string            `json:"subquestionText" firestore:"subquestionText" bson:"subquestionText"`
	QuestionID      string            `json:"questionId" firestore:"questionId" bson:"questionId"`
	Answers         []CandidateAnswer `json:"answers" firestore:"answers" bson:"answers"`
}

// CandidateAnswer is a selectable option inside a subquestion.
type CandidateAnswer struct {
	ID            string `json:"id" firestore:"id" bson:"id"`
	AnswerText    string `json:"answerText" firestore:"answerText" bson:"answerText"`
	QuestionID    string `json:"questionId,omitempty" firestore:"questionId,omitempty" bson:"questionId,omitempty"`
	SubquestionID string `json:"subquestionId,omitempty" firestore:"subquestionId,omitempty" bson:"subquestionId,omitempty"`
	CreatedBy     string `json:"createdBy,omitempty" firestore:"createdBy,omitempty" bson:"createdBy,omitempty"`
}

// FindCandidate looks up the candidate answer with the given id anywhere in
// the tree. The search deliberately scans every subquestion rather than
// keying on the selection's own subquestionId, matching how selections were
// always resolved on the wire.
func (q *TreeQuestion) FindCandidate(answerID string) (CandidateAnswer, bool) {
	for _, sub := range q.Subquestions {
		for _, ans := range sub.Answers {
			if ans.ID == answerID {
				return ans, true
			}
		}
	}
	return CandidateAnswer{}, false
}
