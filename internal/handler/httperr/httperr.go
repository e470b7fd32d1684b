package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the error envelope every endpoint shares: status is false for
// failures and message says what went wrong. Clients branch on the boolean
// before reading anything else.
type Response struct {
	HTTPStatus int    `json:"-"`
	Status     bool   `json:"status"`
	Message    string `json:"message"`
}

// preserves original error for the logging middleware
func AbortWithError(c *gin.Context, status int, err error, msg string) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{HTTPStatus: status, Status: false, Message: msg}

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
