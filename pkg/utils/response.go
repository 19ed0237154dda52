package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the failure envelope shared by the research and blog endpoints.
type ErrorBody struct {
	Error string `json:"error"`
}

// Envelope is the {success, message, data} shape used by /analyze-questions.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorBody{Error: message})
}

func EnvelopeResponse(c *gin.Context, code int, success bool, message string, data interface{}) {
	c.JSON(code, Envelope{
		Success: success,
		Message: message,
		Data:    data,
	})
}

func SuccessMessage(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{
		Success: true,
		Message: message,
	})
}
