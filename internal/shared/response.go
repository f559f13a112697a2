package shared

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ResponseError struct {
	Code   string            `json:"code"`
	Errors []ValidationError `json:"errors"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendError(c *gin.Context, statusCode int, code string, errors []ValidationError) {
	c.JSON(statusCode, ErrorResponse{
		Error: ResponseError{
			Code:   code,
			Errors: errors,
		},
	})
}

func SendValidationError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", FormatValidationErrors(err))
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", []ValidationError{
		{Field: "server", Message: message},
	})
}

func SendUnauthorizedError(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", []ValidationError{
		{Field: "auth", Message: message},
	})
}

func SendConflictError(c *gin.Context, field string, message string) {
	SendError(c, http.StatusConflict, "CONFLICT", []ValidationError{
		{Field: field, Message: message},
	})
}

func SendUnprocessableError(c *gin.Context, code string, field string, message string) {
	SendError(c, http.StatusUnprocessableEntity, code, []ValidationError{
		{Field: field, Message: message},
	})
}
