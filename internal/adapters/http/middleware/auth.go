package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/sessionware/internal/adapters/http/dto"
	"github.com/jsamuelsen/sessionware/internal/domain"
	"github.com/jsamuelsen/sessionware/internal/session"
)

// ContextKeyUserID is the gin context key for the signed-in user's ID.
const ContextKeyUserID = "user_id"

// RequireUser returns middleware that only admits requests whose session
// carries a signed-in user. Sign-in state lives in the session under
// [domain.SessionKeyUserID]; checking it forces the session load, so this
// middleware is also where a broken session store surfaces for protected
// routes.
//
// Anonymous sessions get 401. A session store failure gets 503, except a
// rejected cookie, which is the client's fault and gets 400.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		handle, err := Session(c)
		if err != nil {
			abortWithLoadError(c, err)
			return
		}

		userID, ok := handle.Get(domain.SessionKeyUserID).(string)
		if !ok || userID == "" {
			abortWithUnauthorized(c, "sign-in required")
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the signed-in user's ID stored by RequireUser.
// Returns an empty string if the middleware did not run.
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get(ContextKeyUserID); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}

	return ""
}

// abortWithLoadError aborts with the status a failed session load maps to.
func abortWithLoadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNoSession):
		abortWithError(c, http.StatusInternalServerError, dto.ErrorCodeInternal, "session middleware not installed")
	case domain.IsValidation(err):
		abortWithError(c, http.StatusBadRequest, dto.ErrorCodeValidation, "session cookie rejected")
	default:
		abortWithError(c, http.StatusServiceUnavailable, dto.ErrorCodeUnavailable, "session could not be loaded")
	}
}

// abortWithUnauthorized aborts with a 401 Unauthorized response.
func abortWithUnauthorized(c *gin.Context, message string) {
	abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, message)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	errResp := dto.NewErrorResponse(code, message)

	// Add trace ID if available
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		errResp.TraceID = span.SpanContext().TraceID().String()
	}

	c.AbortWithStatusJSON(status, errResp)
}
