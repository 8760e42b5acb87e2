package routes

import (
	"log"
	"net/http"
	"strings"
	"time"

	"intervue/db"
	"intervue/models"
	"intervue/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// analyzeAnswer is swapped out in tests
var analyzeAnswer = services.AnalyzeAnswer

// SetupInterviewRoutes sets up the interview analysis API
func SetupInterviewRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/interview", AnalyzeInterviewRouteHandler)
		api.GET("/health", HealthRouteHandler)
		api.GET("/history", GetHistoryRouteHandler)
	}
}

// AnalyzeInterviewRouteHandler evaluates one question/answer pair
func AnalyzeInterviewRouteHandler(c *gin.Context) {
	var req models.InterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer must not be empty"})
		return
	}

	log.Printf("Analyzing answer for question: %s", truncate(req.Question, 50))
	feedback, err := analyzeAnswer(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		log.Printf("Analysis failed: %v", err)
		if strings.Contains(err.Error(), "429") {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Model rate limited. Please wait 10s and retry."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze answer"})
		return
	}

	saveSession(req, feedback)
	c.JSON(http.StatusOK, feedback)
}

// HealthRouteHandler reports service status and the configured model
func HealthRouteHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": services.AnalysisModel()})
}

// GetHistoryRouteHandler returns recently analyzed sessions
func GetHistoryRouteHandler(c *gin.Context) {
	sessions, err := db.GetRecentSessions(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// saveSession persists the analyzed pair when a database is configured.
// Persistence failures are logged but never fail the analysis response.
func saveSession(req models.InterviewRequest, feedback models.InterviewFeedback) {
	if !db.Enabled() {
		return
	}
	session := models.InterviewSession{
		ID:        uuid.NewString(),
		Question:  req.Question,
		Answer:    req.Answer,
		Feedback:  feedback,
		Tier:      feedback.Tier(),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.SaveInterviewSession(session); err != nil {
		log.Printf("Failed to save session %s: %v", session.ID, err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
