package models

// Selection records which candidate answer a user picked for one
// subquestion. The store holds at most one Selection per
// (userId, questionId, subquestionId); a repeat pick updates answerId in
// place instead of inserting a second row.
type Selection struct {
	QuestionID    string `json:"questionId" firestore:"questionId" bson:"questionId"`
	SubquestionID string `json:"subquestionId" firestore:"subquestionId" bson:"subquestionId"`
	AnswerID      string `json:"answerId" firestore:"answerId" bson:"answerId"`
	UserID        string `json:"userId" firestore:"userId" bson:"userId"`
}
