package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"complyready-backend/shared/database"
	"complyready-backend/shared/database/models"
)

// CreateOrganizationRequest represents request body for creating an organization
type CreateOrganizationRequest struct {
	Name            string `json:"name" binding:"required"`
	Industry        string `json:"industry" binding:"required"`
	CompanySize     string `json:"company_size" binding:"required"`
	Country         string `json:"country"`
	HandlesPII      bool   `json:"handles_pii"`
	HandlesPayments bool   `json:"handles_payments"`
}

// UpdateOrganizationRequest represents request body for updating an organization.
// Pointer fields distinguish "absent" from zero values.
type UpdateOrganizationRequest struct {
	Name            *string `json:"name"`
	Industry        *string `json:"industry"`
	CompanySize     *string `json:"company_size"`
	Country         *string `json:"country"`
	HandlesPII      *bool   `json:"handles_pii"`
	HandlesPayments *bool   `json:"handles_payments"`
}

// CreateOrganization creates the caller's organization
// @Summary Create organization
// @Description Create the tenant profile for the authenticated user. One organization per user.
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body handlers.CreateOrganizationRequest true "Organization profile"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Validation error or organization already exists"
// @Router /organizations [post]
func CreateOrganization(c *gin.Context) {
	userID := currentUserID(c)
	db := database.GetDB()

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": "Name, industry and company size are required",
		})
		return
	}

	var count int64
	if err := db.Model(&models.Organization{}).
		Where("owner_id = ?", userID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to check organization",
			"message": err.Error(),
		})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Organization already exists",
			"message": "Each user owns exactly one organization",
		})
		return
	}

	country := req.Country
	if country == "" {
		country = "UAE"
	}

	org := models.Organization{
		OwnerID:         userID,
		Name:            req.Name,
		Industry:        req.Industry,
		CompanySize:     req.CompanySize,
		Country:         country,
		HandlesPII:      req.HandlesPII,
		HandlesPayments: req.HandlesPayments,
	}

	if err := db.Create(&org).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create organization",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    org,
	})
}

// GetMyOrganization returns the caller's organization
// @Summary Get own organization
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations/me [get]
func GetMyOrganization(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    org,
	})
}

// UpdateOrganization partially updates the caller's organization. Changing a
// field that affects questionnaire generation bumps the profile version and
// resets the denormalized assessment summary.
// @Summary Update organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body handlers.UpdateOrganizationRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "No valid fields provided"
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations [patch]
func UpdateOrganization(c *gin.Context) {
	userID := currentUserID(c)
	db := database.GetDB()

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	var org models.Organization
	if err := db.Where("owner_id = ?", userID).First(&org).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Organization not found",
			"message": "Create an organization profile first",
		})
		return
	}

	updates := map[string]interface{}{}
	affectsAssessment := false

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Industry != nil {
		updates["industry"] = *req.Industry
		affectsAssessment = affectsAssessment || *req.Industry != org.Industry
	}
	if req.CompanySize != nil {
		updates["company_size"] = *req.CompanySize
		affectsAssessment = affectsAssessment || *req.CompanySize != org.CompanySize
	}
	if req.Country != nil {
		updates["country"] = *req.Country
		affectsAssessment = affectsAssessment || *req.Country != org.Country
	}
	if req.HandlesPII != nil {
		updates["handles_pii"] = *req.HandlesPII
		affectsAssessment = affectsAssessment || *req.HandlesPII != org.HandlesPII
	}
	if req.HandlesPayments != nil {
		updates["handles_payments"] = *req.HandlesPayments
		affectsAssessment = affectsAssessment || *req.HandlesPayments != org.HandlesPayments
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No valid fields provided",
			"message": "Provide at least one updatable field",
		})
		return
	}

	// A profile change that invalidates prior assessments bumps the version
	// and clears the stale summary.
	if affectsAssessment {
		updates["profile_version"] = org.ProfileVersion + 1
		updates["compliance_score"] = 0
		updates["risk_level"] = "Unknown"
		updates["open_gaps"] = 0
	}

	if err := db.Model(&org).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update organization",
			"message": err.Error(),
		})
		return
	}

	message := "Organization updated successfully."
	if affectsAssessment {
		message = "Organization updated. Please run a new assessment."
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"data":               org,
		"affects_assessment": affectsAssessment,
		"message":            message,
	})
}
