package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/storefront/internal/editor"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	"github.com/smallbiznis/storefront/internal/query"
)

type errorPayload struct {
	Type    string                     `json:"type"`
	Message string                     `json:"message"`
	Errors  []productdomain.FieldError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrNotFound = errors.New("not_found")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request")
}

func newValidationError(field, code string) error {
	return &productdomain.ValidationError{
		Errors: []productdomain.FieldError{{Field: field, Code: code}},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    string(productdomain.ReasonNotFound),
			Message: "not found",
		}
	case errors.Is(err, editor.ErrSessionClosed):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "edit session is closed",
		}
	case errors.Is(err, query.ErrInvalidSortKey):
		return http.StatusBadRequest, errorPayload{
			Type:    string(productdomain.ReasonValidation),
			Message: "validation error",
			Errors:  []productdomain.FieldError{{Field: "sort", Code: "invalid_sort_key"}},
		}
	}

	switch reason := productdomain.ReasonOf(err); reason {
	case productdomain.ReasonValidation:
		return http.StatusBadRequest, errorPayload{
			Type:    string(reason),
			Message: "validation error",
			Errors:  productdomain.FieldErrorsOf(err),
		}
	case productdomain.ReasonNotFound:
		return http.StatusNotFound, errorPayload{
			Type:    string(reason),
			Message: "not found",
		}
	case productdomain.ReasonReferentialIntegrity:
		return http.StatusConflict, errorPayload{
			Type:    string(reason),
			Message: "product is referenced by orders",
		}
	case productdomain.ReasonAssetIO:
		return http.StatusInternalServerError, errorPayload{
			Type:    string(reason),
			Message: "photo storage failed",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    string(productdomain.ReasonPersistence),
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog returns the error type and code logged with a failed
// request.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError {
		return payload.Type, "internal"
	}
	return payload.Type, code
}
