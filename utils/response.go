package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RequireConfirmation implements the confirmation step of destructive
// actions: the request must carry confirm=true, otherwise the prompt is
// returned with 428 and false is reported.
func RequireConfirmation(c *gin.Context, prompt string) bool {
	if c.Query("confirm") == "true" {
		return true
	}
	c.AbortWithStatusJSON(http.StatusPreconditionRequired, gin.H{
		"error":            prompt,
		"confirm_required": true,
	})
	return false
}
