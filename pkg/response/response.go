package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the uniform error payload: {"message": "..."}.
type Body struct {
	Message string `json:"message"`
}

// Error writes the error body with the given status and aborts the
// request, so middleware and handlers share one failure path.
func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, Body{Message: message})
}
