package models

// Topics of the iceberg model. The first four use the flat question shape;
// feelings and needs use the subquestion tree plus per-user selection rows.
const (
	TopicBody      = "body"
	TopicSOS       = "sos"
	TopicKnowledge = "knowledge"
	TopicThoughts  = "thoughts"
	TopicFeelings  = "feelings"
	TopicNeeds     = "needs"
)

// FlatTopics lists the topics whose questions hold free-text answers in
// place.
var FlatTopics = []string{TopicBody, TopicSOS, TopicKnowledge, TopicThoughts}

// TreeTopics lists the topics whose questions are subquestion trees backed
// by per-user selection collections.
var TreeTopics = []string{TopicFeelings, TopicNeeds}

const (
	UsersCollection = "users"

	// Cache keys for the locally mirrored auth records.
	AuthStateKey = "authUser"
	AdminAuthKey = "adminAuth"
)

// QuestionCollection returns the question collection name for a topic,
// e.g. "feelings-questions".
func QuestionCollection(topic string) string {
	return topic + "-questions"
}

// SelectionCollection returns the per-user answer collection for a tree
// topic, e.g. "user-feelings-answers".
func SelectionCollection(topic string) string {
	return "user-" + topic + "-answers"
}

// UserCacheKey is the local-cache key under which a user profile is
// mirrored.
func UserCacheKey(uid string) string {
	return UsersCollection + "/" + uid
}
