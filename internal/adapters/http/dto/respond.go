package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sessionware/internal/domain"
)

// GetTraceID returns the trace ID for the current request. It prefers the
// ID stored in the gin context by the request ID middleware and falls back
// to the X-Request-ID request header.
func GetTraceID(c *gin.Context) string {
	// Matches the request ID middleware's context key.
	if v, exists := c.Get("request_id"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}

	return c.Request.Header.Get("X-Request-ID")
}

// HandleError writes the error envelope for a domain error. Handlers use
// this leaf helper; the adapter package has its own RespondWithError and
// cannot be imported from here without a cycle.
//
// Unavailable and unknown errors get generic messages so outage details
// and internals never leak to clients.
func HandleError(c *gin.Context, err error) {
	status, resp := errorResponseFor(err)
	c.JSON(status, resp.WithTraceID(GetTraceID(c)))
}

func errorResponseFor(err error) (int, *ErrorResponse) {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(
			ErrorCodeNotFound,
			err.Error(),
		)

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(
			ErrorCodeConflict,
			err.Error(),
		)

	case domain.IsValidation(err):
		return http.StatusBadRequest, NewErrorResponse(
			ErrorCodeValidation,
			err.Error(),
		)

	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized, NewErrorResponse(
			ErrorCodeUnauthorized,
			err.Error(),
		)

	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(
			ErrorCodeForbidden,
			err.Error(),
		)

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			"service temporarily unavailable",
		)

	default:
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// HandleBindingError writes the envelope for a BindAndValidate failure:
// field-level details when validation failed, a generic 400 when the body
// could not be decoded at all.
func HandleBindingError(c *gin.Context, err error) {
	if IsValidationError(err) {
		resp := NewErrorResponseWithDetails(
			ErrorCodeValidation,
			"request validation failed",
			ValidationErrors(err),
		)
		c.JSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))

		return
	}

	resp := NewErrorResponse(ErrorCodeBadRequest, "request body could not be parsed")
	c.JSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))
}
