package apperror

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Render writes err as {"error","code","details"}. Unknown errors become a
// 500 INTERNAL_FAILURE.
func Render(c *gin.Context, err error) {
	if appErr, ok := As(err); ok {
		body := gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		}
		if appErr.Detail != "" {
			body["details"] = appErr.Detail
		}
		c.JSON(appErr.Status, body)
		return
	}

	// Default to 500 for unknown errors
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal Server Error",
		"code":    CodeInternalFailure,
		"details": err.Error(),
	})
}
