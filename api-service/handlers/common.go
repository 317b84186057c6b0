package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"complyready-backend/shared/utils/apperr"
)

// currentUserID returns the authenticated caller set by the auth middleware
func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("userID").(uuid.UUID)
}

// respondError maps an application error to a response: status from the
// error kind, message for the caller, detail (e.g. raw text-service output)
// when present. Unexpected errors are logged and reported generically.
func respondError(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Printf("❌ %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	payload := gin.H{
		"error":   string(apperr.KindOf(err)),
		"message": apperr.Message(err),
	}
	if detail := apperr.Detail(err); detail != "" {
		payload["detail"] = detail
	}

	c.JSON(apperr.HTTPStatus(err), payload)
}
