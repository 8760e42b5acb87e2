package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"intervue/models"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupInterviewRoutes(router)
	return router
}

func stubAnalyzeAnswer(t *testing.T, fn func(ctx context.Context, question, answer string) (models.InterviewFeedback, error)) {
	t.Helper()
	orig := analyzeAnswer
	analyzeAnswer = fn
	t.Cleanup(func() { analyzeAnswer = orig })
}

func postInterview(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/interview", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeInterviewReturnsFeedback(t *testing.T) {
	var gotQuestion, gotAnswer string
	stubAnalyzeAnswer(t, func(ctx context.Context, question, answer string) (models.InterviewFeedback, error) {
		gotQuestion = question
		gotAnswer = answer
		return models.InterviewFeedback{
			Score:           8,
			Strengths:       []string{"Clear structure"},
			Weaknesses:      []string{"No metrics given"},
			SuggestedAnswer: "Mention quantifiable impact.",
		}, nil
	})

	router := newTestRouter()
	w := postInterview(router, `{"question":"Tell me about a migration.","answer":"I led a migration project under a tight deadline."}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if gotQuestion != "Tell me about a migration." {
		t.Errorf("question was modified before analysis: %q", gotQuestion)
	}
	if gotAnswer != "I led a migration project under a tight deadline." {
		t.Errorf("answer was modified before analysis: %q", gotAnswer)
	}

	var feedback models.InterviewFeedback
	if err := json.Unmarshal(w.Body.Bytes(), &feedback); err != nil {
		t.Fatalf("response is not valid feedback: %v", err)
	}
	if feedback.Score != 8 {
		t.Errorf("expected score 8, got %d", feedback.Score)
	}
	if len(feedback.Strengths) != 1 || feedback.Strengths[0] != "Clear structure" {
		t.Errorf("unexpected strengths: %v", feedback.Strengths)
	}
	if len(feedback.Weaknesses) != 1 || feedback.Weaknesses[0] != "No metrics given" {
		t.Errorf("unexpected weaknesses: %v", feedback.Weaknesses)
	}
	if feedback.SuggestedAnswer != "Mention quantifiable impact." {
		t.Errorf("unexpected suggested answer: %q", feedback.SuggestedAnswer)
	}
}

func TestAnalyzeInterviewRejectsMissingFields(t *testing.T) {
	called := false
	stubAnalyzeAnswer(t, func(ctx context.Context, question, answer string) (models.InterviewFeedback, error) {
		called = true
		return models.InterviewFeedback{}, nil
	})

	router := newTestRouter()
	cases := []struct {
		name string
		body string
	}{
		{"missing answer", `{"question":"Q"}`},
		{"missing question", `{"answer":"A"}`},
		{"empty answer", `{"question":"Q","answer":""}`},
		{"not json", `question=Q&answer=A`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := postInterview(router, c.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
	if called {
		t.Error("analysis must not run for invalid payloads")
	}
}

func TestAnalyzeInterviewRejectsWhitespaceAnswer(t *testing.T) {
	called := false
	stubAnalyzeAnswer(t, func(ctx context.Context, question, answer string) (models.InterviewFeedback, error) {
		called = true
		return models.InterviewFeedback{}, nil
	})

	router := newTestRouter()
	w := postInterview(router, `{"question":"Q","answer":"   \n\t "}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for whitespace-only answer, got %d", w.Code)
	}
	if called {
		t.Error("analysis must not run for whitespace-only answers")
	}
}

func TestAnalyzeInterviewFailure(t *testing.T) {
	stubAnalyzeAnswer(t, func(ctx context.Context, question, answer string) (models.InterviewFeedback, error) {
		return models.InterviewFeedback{}, errors.New("model exploded")
	})

	router := newTestRouter()
	w := postInterview(router, `{"question":"Q","answer":"A"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not json: %v", err)
	}
	if resp["error"] != "Failed to analyze answer" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestAnalyzeInterviewRateLimited(t *testing.T) {
	stubAnalyzeAnswer(t, func(ctx context.Context, question, answer string) (models.InterviewFeedback, error) {
		return models.InterviewFeedback{}, errors.New("googleapi: Error 429: quota exceeded")
	})

	router := newTestRouter()
	w := postInterview(router, `{"question":"Q","answer":"A"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not json: %v", err)
	}
	if resp["error"] != "Model rate limited. Please wait 10s and retry." {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestAnalyzeInterviewRetryRepeatsIdenticalRequest(t *testing.T) {
	var questions, answers []string
	stubAnalyzeAnswer(t, func(ctx context.Context, question, answer string) (models.InterviewFeedback, error) {
		questions = append(questions, question)
		answers = append(answers, answer)
		if len(questions) == 1 {
			return models.InterviewFeedback{}, errors.New("transient failure")
		}
		return models.InterviewFeedback{Score: 7, Strengths: []string{}, Weaknesses: []string{}, SuggestedAnswer: "x"}, nil
	})

	router := newTestRouter()
	body := `{"question":"Q","answer":"I led a migration project under a tight deadline."}`

	if w := postInterview(router, body); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected first request to fail with 500, got %d", w.Code)
	}
	if w := postInterview(router, body); w.Code != http.StatusOK {
		t.Fatalf("expected retry to succeed with 200, got %d", w.Code)
	}

	if len(questions) != 2 || questions[0] != questions[1] || answers[0] != answers[1] {
		t.Errorf("retry did not re-issue the identical request: %v / %v", questions, answers)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("health body is not json: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
	if resp["model"] == "" {
		t.Error("expected model name in health response")
	}
}

func TestHistoryEmptyWithoutDatabase(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var sessions []models.InterviewSession
	if err := json.Unmarshal(w.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("history body is not json: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected empty history without a database, got %d sessions", len(sessions))
	}
}
