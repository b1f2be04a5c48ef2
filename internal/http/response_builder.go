package http

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Client mistakes carry a "message" body, server failures an "error" body.
type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, messageResponse{Message: message})
}

func writeError(c *gin.Context, status int, err string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: err})
}

func requestErrorMessage(err error) string {
	switch {
	case errors.Is(err, errAmountNotANumber):
		return "Amount must be a number"
	case errors.Is(err, errMalformedBody):
		return "Malformed request body"
	default:
		return "Bad request"
	}
}
