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

// UpdateActionStatusRequest represents request body for a status transition
type UpdateActionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListActions returns the caller's remediation actions for the current snapshot
// @Summary List actions
// @Tags actions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /actions [get]
func ListActions(c *gin.Context) {
	userID := currentUserID(c)

	svc := services.NewActionService(database.GetDB(), clients.NewGeminiClient())
	actions, err := svc.ListActions(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    actions,
	})
}

// GetAction returns one action, generating remediation steps on first read
// @Summary Get action detail
// @Description Fetch a remediation action. Missing remediation steps are generated through the text service and persisted; a failed generation leaves them empty.
// @Tags actions
// @Produce json
// @Param id path string true "Action ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Action not found"
// @Router /actions/{id} [get]
func GetAction(c *gin.Context) {
	userID := currentUserID(c)

	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid action ID",
			"message": "Action ID must be a valid UUID",
		})
		return
	}

	svc := services.NewActionService(database.GetDB(), clients.NewGeminiClient())
	action, err := svc.GetAction(c.Request.Context(), userID, actionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    action,
	})
}

// UpdateActionStatus applies a status transition to an action
// @Summary Update action status
// @Description Apply a monotonic transition (PENDING → IN_PROGRESS → COMPLETED). Completing an action bumps the organization snapshot. Updating an already-completed action is a no-op success.
// @Tags actions
// @Accept json
// @Produce json
// @Param id path string true "Action ID"
// @Param request body handlers.UpdateActionStatusRequest true "Target status"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid status or transition"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /actions/{id}/status [post]
func UpdateActionStatus(c *gin.Context) {
	userID := currentUserID(c)

	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid action ID",
			"message": "Action ID must be a valid UUID",
		})
		return
	}

	var req UpdateActionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing fields",
			"message": "status is required",
		})
		return
	}

	svc := services.NewActionService(database.GetDB(), clients.NewGeminiClient())
	result, err := svc.UpdateStatus(userID, actionID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Completed && result.Snapshot != nil {
		cache.InvalidateDashboard(userID)
		services.GetWebSocketManager().NotifyScoreChange(
			userID, services.EventActionCompleted,
			result.Snapshot.ReadinessScore, result.Snapshot.RiskLevel)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
