package response

import (
	"errors"
	"net/http"

	"custodial-wallet-service/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Envelope is the standard success envelope: {success, message, data}.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorEnvelope is the standard error envelope, with optional per-field errors.
type ErrorEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 response with data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns a generic 500 with no detail
// leaked to the client.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorEnvelope{Success: false, Message: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{Success: false, Message: "Internal server error"})
}

// ValidationError sends a 400 with a field/message array.
func ValidationError(c *gin.Context, fields []FieldError) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{
		Success: false,
		Message: "Validation failed",
		Errors:  fields,
	})
}
