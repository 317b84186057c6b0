package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"complyready-backend/shared/database"
	"complyready-backend/shared/database/models"
	"complyready-backend/shared/database/models/compliance"
	"complyready-backend/shared/utils/query"
)

// GetLatestReport returns the newest report for the caller's organization
// @Summary Get latest report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No report found"
// @Router /reports/latest [get]
func GetLatestReport(c *gin.Context) {
	userID := currentUserID(c)
	db := database.GetDB()

	var org models.Organization
	if err := db.Where("owner_id = ?", userID).First(&org).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Organization not found",
			"message": "Create an organization profile first",
		})
		return
	}

	var report compliance.Report
	err := db.Where("user_id = ? AND organization_id = ?", userID, org.ID).
		Order("created_at DESC").
		First(&report).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "No report found",
			"message": "Submit an assessment to generate a report",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// ListReports returns the caller's report history, newest first
// @Summary List report history
// @Tags reports
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param filters[risk_level] query string false "Filter by risk level (Low, Medium, High)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /reports [get]
func ListReports(c *gin.Context) {
	userID := currentUserID(c)
	db := database.GetDB()

	var org models.Organization
	if err := db.Where("owner_id = ?", userID).First(&org).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Organization not found",
			"message": "Create an organization profile first",
		})
		return
	}

	params := query.ParseListParams(c)

	allowedFilters := map[string]string{
		"risk_level": "risk_level",
	}

	dbQuery := db.Model(&compliance.Report{}).
		Where("user_id = ? AND organization_id = ?", userID, org.ID)
	dbQuery = query.ApplyFilters(dbQuery, params.Filters, allowedFilters)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count reports",
			"message": err.Error(),
		})
		return
	}

	var reports []compliance.Report
	err := query.ApplyPagination(dbQuery.Order("created_at DESC"), params.Page, params.Limit).
		Find(&reports).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve reports",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      reports,
			"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
		},
	})
}

// GetReportByAssessment returns the report of one assessment
// @Summary Get report by assessment
// @Tags reports
// @Produce json
// @Param assessmentId path string true "Assessment ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{assessmentId} [get]
func GetReportByAssessment(c *gin.Context) {
	userID := currentUserID(c)
	db := database.GetDB()

	assessmentID, err := uuid.Parse(c.Param("assessmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid assessment ID",
			"message": "Assessment ID must be a valid UUID",
		})
		return
	}

	var report compliance.Report
	if err := db.Where("assessment_id = ?", assessmentID).First(&report).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Report not found",
			"message": "No report exists for this assessment",
		})
		return
	}

	if report.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "You do not own this report",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}
