package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"intervue/config"
	"intervue/models"
)

// The model occasionally ignores the JSON-only instruction, so unparsable
// output gets re-asked up to this many times before giving up.
const maxAnalysisAttempts = 3

var analysisModel = defaultGeminiModel

// generateText is swapped out in tests
var generateText = func(ctx context.Context, prompt string) (string, error) {
	return generateModelText(ctx, analysisModel, prompt)
}

// InitInterviewService initializes the Gemini client used for answer analysis
func InitInterviewService(cfg *config.Config) {
	if cfg.Gemini.Model != "" {
		analysisModel = cfg.Gemini.Model
	}
	var err error
	geminiClient, err = initGemini(cfg.Gemini.ApiKey)
	if err != nil {
		panic("Failed to initialize Gemini client: " + err.Error())
	}
}

// AnalysisModel returns the name of the model answering analysis requests
func AnalysisModel() string {
	return analysisModel
}

func buildAnalysisPrompt(question, answer string) string {
	return fmt.Sprintf(
		`You are a tough, professional job interview coach. Evaluate the candidate's answer strictly but fairly and provide constructive feedback.

Question: %s
Candidate Answer: %s

Required Output Format (JSON):
{
  "score": X,
  "strengths": ["strong point", ...],
  "weaknesses": ["area for improvement", ...],
  "suggested_answer": "a better way to answer the question"
}

The score must be an integer from 1 to 10 based on the quality of the answer.
Provide ONLY the JSON output without additional text or markdown formatting.`,
		question, answer,
	)
}

// AnalyzeAnswer evaluates the candidate's answer to an interview question
// and returns structured feedback generated by Gemini.
func AnalyzeAnswer(ctx context.Context, question, answer string) (models.InterviewFeedback, error) {
	prompt := buildAnalysisPrompt(question, answer)

	var lastErr error
	for attempt := 1; attempt <= maxAnalysisAttempts; attempt++ {
		response, err := generateText(ctx, prompt)
		if err != nil {
			return models.InterviewFeedback{}, fmt.Errorf("failed to analyze answer: %w", err)
		}

		feedback, err := parseFeedback(response)
		if err != nil {
			lastErr = err
			continue
		}
		return feedback, nil
	}
	return models.InterviewFeedback{}, fmt.Errorf("model returned no usable feedback: %w", lastErr)
}

// feedbackWire mirrors InterviewFeedback with pointer fields so that missing
// keys can be told apart from zero values.
type feedbackWire struct {
	Score           *int      `json:"score"`
	Strengths       *[]string `json:"strengths"`
	Weaknesses      *[]string `json:"weaknesses"`
	SuggestedAnswer *string   `json:"suggested_answer"`
}

func parseFeedback(raw string) (models.InterviewFeedback, error) {
	if raw == "" {
		return models.InterviewFeedback{}, errors.New("empty model response")
	}

	var wire feedbackWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return models.InterviewFeedback{}, fmt.Errorf("invalid feedback format: %v", err)
	}

	switch {
	case wire.Score == nil:
		return models.InterviewFeedback{}, errors.New("invalid feedback: missing score")
	case *wire.Score < 0 || *wire.Score > 10:
		return models.InterviewFeedback{}, fmt.Errorf("invalid feedback: score %d out of range", *wire.Score)
	case wire.Strengths == nil:
		return models.InterviewFeedback{}, errors.New("invalid feedback: missing strengths")
	case wire.Weaknesses == nil:
		return models.InterviewFeedback{}, errors.New("invalid feedback: missing weaknesses")
	case wire.SuggestedAnswer == nil || *wire.SuggestedAnswer == "":
		return models.InterviewFeedback{}, errors.New("invalid feedback: missing suggested answer")
	}

	return models.InterviewFeedback{
		Score:           *wire.Score,
		Strengths:       *wire.Strengths,
		Weaknesses:      *wire.Weaknesses,
		SuggestedAnswer: *wire.SuggestedAnswer,
	}, nil
}
