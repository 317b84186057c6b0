package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"complyready-backend/api-service/services"
	"complyready-backend/shared/clients"
	"complyready-backend/shared/database"
	"complyready-backend/shared/utils/cache"
)

// StartAssessmentRequest represents request body for starting an assessment
type StartAssessmentRequest struct {
	ForceNew bool `json:"force_new"`
}

// RecordAnswerRequest represents request body for answering a question
type RecordAnswerRequest struct {
	QuestionID string  `json:"question_id" binding:"required"`
	Value      string  `json:"value" binding:"required"`
	Notes      *string `json:"notes"`
}

// StartAssessment starts a new assessment or resumes the in-progress one
// @Summary Start or resume assessment
// @Description Resume the newest in-progress assessment, or create a fresh one with a generated questionnaire. Forcing cancels any in-progress runs first.
// @Tags assessments
// @Accept json
// @Produce json
// @Param request body handlers.StartAssessmentRequest false "Force-new flag"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Organization not found"
// @Failure 502 {object} map[string]string "Questionnaire generation failed"
// @Router /assessments [post]
func StartAssessment(c *gin.Context) {
	userID := currentUserID(c)

	var req StartAssessmentRequest
	_ = c.ShouldBindJSON(&req)

	svc := services.NewAssessmentService(database.GetDB(), clients.NewGeminiClient())
	result, err := svc.StartOrResume(c.Request.Context(), userID, req.ForceNew)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"assessment_id": result.Assessment.ID,
		"resumed":       result.Resumed,
	})
}

// GetAssessment returns the full question and answer tree of an assessment
// @Summary Get assessment detail
// @Tags assessments
// @Produce json
// @Param id path string true "Assessment ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Assessment not found"
// @Router /assessments/{id} [get]
func GetAssessment(c *gin.Context) {
	userID := currentUserID(c)

	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid assessment ID",
			"message": "Assessment ID must be a valid UUID",
		})
		return
	}

	svc := services.NewAssessmentService(database.GetDB(), clients.NewGeminiClient())
	run, err := svc.GetAssessment(userID, assessmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    run,
	})
}

// RecordAnswer stores the answer for a question, replacing any previous one
// @Summary Record answer
// @Description Record YES/PARTIAL/NO for a question. A question has at most one answer; resubmitting replaces it, notes included.
// @Tags assessments
// @Accept json
// @Produce json
// @Param request body handlers.RecordAnswerRequest true "Answer"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /assessments/answer [post]
func RecordAnswer(c *gin.Context) {
	userID := currentUserID(c)

	var req RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing fields",
			"message": "question_id and value are required",
		})
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid question ID",
			"message": "Question ID must be a valid UUID",
		})
		return
	}

	svc := services.NewAssessmentService(database.GetDB(), clients.NewGeminiClient())
	answer, err := svc.RecordAnswer(userID, questionID, req.Value, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    answer,
	})
}

// SubmitAssessment completes an assessment and runs the scoring pipeline
// @Summary Submit assessment
// @Description Complete the assessment: compute the weighted score, upsert the report, derive risks and remediation actions, and reset the organization snapshot.
// @Tags assessments
// @Produce json
// @Param id path string true "Assessment ID"
// @Security BearerAuth
// @Success 200 {object} services.SubmitResult
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Assessment not found"
// @Router /assessments/{id}/submit [post]
func SubmitAssessment(c *gin.Context) {
	userID := currentUserID(c)

	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid assessment ID",
			"message": "Assessment ID must be a valid UUID",
		})
		return
	}

	svc := services.NewSubmissionService(database.GetDB(), clients.NewGeminiClient())
	result, err := svc.Submit(c.Request.Context(), userID, assessmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.AlreadyCompleted {
		cache.InvalidateDashboard(userID)
		services.GetWebSocketManager().NotifyScoreChange(
			userID, services.EventAssessmentScored, result.Score, result.RiskLevel)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"score":      result.Score,
		"risk_level": result.RiskLevel,
		"open_gaps":  result.OpenGaps,
		"resubmit":   result.AlreadyCompleted,
	})
}
