package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"complyready-backend/shared/database"
	"complyready-backend/shared/database/models"
	"complyready-backend/shared/database/models/compliance"
	"complyready-backend/shared/utils/cache"
)

// DashboardResponse is the aggregated board payload
type DashboardResponse struct {
	ReadinessScore   int               `json:"readiness_score"`
	RiskLevel        string            `json:"risk_level"`
	LastAssessmentAt *time.Time        `json:"last_assessment_at"`
	OrganizationName string            `json:"organization_name"`
	Stats            DashboardStats    `json:"stats"`
	NextActions      []NextActionEntry `json:"next_actions"`
}

// DashboardStats summarizes the snapshot counters
type DashboardStats struct {
	HighRisks        int `json:"high_risks"`
	ActionsPending   int `json:"actions_pending"`
	ActionsCompleted int `json:"actions_completed"`
	ScoreImprovement int `json:"score_improvement"`
}

// NextActionEntry is one open remediation action on the board
type NextActionEntry struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	ExpectedIncrease int       `json:"expected_increase"`
	Status           string    `json:"status"`
}

// GetDashboard returns the organization's current compliance posture
// @Summary Get dashboard
// @Description Aggregated posture: snapshot figures plus open remediation actions for the snapshot's assessment. Served from cache when fresh.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.DashboardResponse
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /dashboard [get]
func GetDashboard(c *gin.Context) {
	userID := currentUserID(c)
	db := database.GetDB()

	if cm := cache.GetCacheManager(); cm != nil {
		var cached DashboardResponse
		if cm.GetJSON(cache.DashboardKey(userID), &cached) {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	var org models.Organization
	if err := db.Where("owner_id = ?", userID).First(&org).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Organization not found",
			"message": "Create an organization profile first",
		})
		return
	}

	response := DashboardResponse{
		RiskLevel:        "Not started",
		OrganizationName: org.Name,
		NextActions:      []NextActionEntry{},
	}

	var snapshot compliance.ComplianceSnapshot
	err := db.Where("organization_id = ?", org.ID).First(&snapshot).Error
	if err == nil {
		response.ReadinessScore = snapshot.ReadinessScore
		response.RiskLevel = snapshot.RiskLevel
		response.LastAssessmentAt = snapshot.LastAssessmentAt
		response.Stats = DashboardStats{
			HighRisks:        snapshot.HighRiskCount,
			ActionsPending:   snapshot.ActionsPending,
			ActionsCompleted: snapshot.ActionsCompleted,
			ScoreImprovement: snapshot.ScoreImprovement,
		}

		var actions []compliance.ComplianceAction
		if err := db.Where("organization_id = ? AND assessment_id = ? AND status IN (?)",
			org.ID, snapshot.AssessmentID,
			[]string{compliance.ActionStatusPending, compliance.ActionStatusInProgress}).
			Order("created_at ASC").
			Find(&actions).Error; err == nil {
			for _, a := range actions {
				response.NextActions = append(response.NextActions, NextActionEntry{
					ID:               a.ID,
					Title:            a.Title,
					ExpectedIncrease: a.ExpectedIncrease,
					Status:           a.Status,
				})
			}
		}
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.SetJSON(cache.DashboardKey(userID), response, cache.DashboardTTL)
	}

	c.JSON(http.StatusOK, response)
}
