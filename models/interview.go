package models

import "time"

// InterviewRequest is the payload sent by the frontend for analysis
type InterviewRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// InterviewFeedback is the structured evaluation produced by the model
type InterviewFeedback struct {
	Score           int      `json:"score"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	SuggestedAnswer string   `json:"suggested_answer"`
}

// Tier buckets the score for presentation: good (>=8), borderline (5-7), poor (<5)
func (f InterviewFeedback) Tier() string {
	switch {
	case f.Score >= 8:
		return "good"
	case f.Score >= 5:
		return "borderline"
	default:
		return "poor"
	}
}

// InterviewSession is one analyzed question/answer pair stored in MongoDB
type InterviewSession struct {
	ID        string            `json:"id" bson:"_id"`
	Question  string            `json:"question" bson:"question"`
	Answer    string            `json:"answer" bson:"answer"`
	Feedback  InterviewFeedback `json:"feedback" bson:"feedback"`
	Tier      string            `json:"tier" bson:"tier"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
}
