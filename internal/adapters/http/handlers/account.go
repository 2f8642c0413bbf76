package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sessionware/internal/adapters/http/dto"
	"github.com/jsamuelsen/sessionware/internal/adapters/http/middleware"
	"github.com/jsamuelsen/sessionware/internal/app"
	"github.com/jsamuelsen/sessionware/internal/domain"
)

// AccountHandler handles the session-backed account endpoints. Every
// endpoint resolves its session through the middleware accessor; mutations
// are committed by the session middleware after the handler returns.
type AccountHandler struct {
	service *app.AccountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service *app.AccountService) *AccountHandler {
	return &AccountHandler{
		service: service,
	}
}

// toProfileResponse converts a domain Profile to an HTTP response.
func toProfileResponse(p *domain.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:   p.UserID,
		UserName: p.UserName,
		Theme:    p.Theme,
	}
}

// Login handles POST /api/v1/login
// Records the gateway-verified identity in the session and flashes a
// welcome notice for the next request.
//
// @Summary Sign a user in
// @Description Stores the signed-in identity in the session
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Signed-in identity"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	sess, err := middleware.Session(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.SignIn(c.Request.Context(), sess, req.UserID, req.UserName); err != nil {
		dto.HandleError(c, err)
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), sess)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// Logout handles POST /api/v1/logout
// Drops all session state. Safe to call on an anonymous session.
//
// @Summary Sign the user out
// @Description Clears the session and flashes a sign-out notice
// @Tags account
// @Success 204
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/logout [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	sess, err := middleware.Session(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.service.SignOut(c.Request.Context(), sess)

	c.Status(http.StatusNoContent)
}

// GetProfile handles GET /api/v1/profile
// Returns the signed-in user's profile. Reading never re-persists the
// session.
//
// @Summary Get the signed-in user's profile
// @Tags account
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/profile [get]
func (h *AccountHandler) GetProfile(c *gin.Context) {
	sess, err := middleware.Session(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), sess)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateTheme handles PUT /api/v1/profile/theme
// Stores the UI theme preference in the session.
//
// @Summary Set the UI theme preference
// @Tags account
// @Accept json
// @Param request body dto.ThemeRequest true "Theme preference"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/profile/theme [put]
func (h *AccountHandler) UpdateTheme(c *gin.Context) {
	var req dto.ThemeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	sess, err := middleware.Session(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.SetTheme(c.Request.Context(), sess, req.Theme); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetNotices handles GET /api/v1/notices
// Drains the pending one-time notice. Draining counts as a read, so
// polling this endpoint never forces a session write.
//
// @Summary Consume pending notices
// @Tags account
// @Produce json
// @Success 200 {object} dto.NoticesResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/notices [get]
func (h *AccountHandler) GetNotices(c *gin.Context) {
	sess, err := middleware.Session(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := dto.NoticesResponse{Notices: []dto.NoticeResponse{}}
	if notice, ok := h.service.PopNotice(c.Request.Context(), sess); ok {
		resp.Notices = append(resp.Notices, dto.NoticeResponse{
			Kind:    string(notice.Kind),
			Message: notice.Message,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterAccountRoutes registers account routes on the given router group.
// Login, logout and notices accept anonymous sessions; the profile routes
// require a signed-in user.
func (h *AccountHandler) RegisterAccountRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/notices", h.GetNotices)

	profile := rg.Group("/profile")
	profile.Use(middleware.RequireUser())
	profile.GET("", h.GetProfile)
	profile.PUT("/theme", h.UpdateTheme)
}
