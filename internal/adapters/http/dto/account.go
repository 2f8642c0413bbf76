package dto

// LoginRequest is the payload for POST /api/v1/login. Credential
// verification happens upstream; this service records who the gateway says
// is signed in.
type LoginRequest struct {
	// UserID is the authenticated user's identifier.
	UserID string `json:"userId" validate:"required,notempty"`

	// UserName is the authenticated user's display name.
	UserName string `json:"userName" validate:"required,notempty"`
}

// ThemeRequest is the payload for PUT /api/v1/profile/theme.
type ThemeRequest struct {
	// Theme is the UI theme preference.
	Theme string `json:"theme" validate:"required,oneof=light dark system"`
}

// ProfileResponse is the account view assembled from session state.
type ProfileResponse struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Theme    string `json:"theme"`
}

// NoticeResponse is a one-time message drained from the session.
type NoticeResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NoticesResponse is the payload for GET /api/v1/notices. Notices holds the
// drained one-time messages, empty when none were pending.
type NoticesResponse struct {
	Notices []NoticeResponse `json:"notices"`
}
