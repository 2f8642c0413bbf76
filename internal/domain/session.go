// Package domain contains core business types and errors.
package domain

// Well-known session keys shared by the account service and the HTTP
// adapters. The session itself stores opaque values; these names are the
// business vocabulary this service stores under.
const (
	// SessionKeyUserID holds the authenticated user's identifier.
	SessionKeyUserID = "user_id"

	// SessionKeyUserName holds the authenticated user's display name.
	SessionKeyUserName = "user_name"

	// SessionKeyTheme holds the user's UI theme preference.
	SessionKeyTheme = "theme"

	// SessionKeyNotice holds the pending one-time notice, stored flashed.
	SessionKeyNotice = "notice"
)

// NoticeKind classifies a one-time notice for rendering.
type NoticeKind string

const (
	// NoticeSuccess marks a completed operation.
	NoticeSuccess NoticeKind = "success"

	// NoticeInfo marks a neutral announcement.
	NoticeInfo NoticeKind = "info"

	// NoticeError marks a failed operation surfaced on the next page.
	NoticeError NoticeKind = "error"
)

// Notice is a one-time message flashed into the session on one request and
// drained by the next. It has no knowledge of how the session persists it.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// NewNotice creates a notice of the given kind.
func NewNotice(kind NoticeKind, message string) Notice {
	return Notice{Kind: kind, Message: message}
}

// NoticeFromValue coerces a session value into a Notice. Within a request
// the value is a Notice; after a round trip through a JSON session store it
// comes back as a plain map.
func NoticeFromValue(value any) (Notice, bool) {
	switch v := value.(type) {
	case Notice:
		return v, true
	case map[string]any:
		kind, _ := v["kind"].(string)
		message, _ := v["message"].(string)

		if kind == "" && message == "" {
			return Notice{}, false
		}

		return Notice{Kind: NoticeKind(kind), Message: message}, true
	default:
		return Notice{}, false
	}
}

// Theme names accepted for the UI preference stored under SessionKeyTheme.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	// DefaultTheme is assumed when the session carries no preference.
	DefaultTheme = ThemeSystem
)

// IsValidTheme reports whether theme names a supported UI theme.
func IsValidTheme(theme string) bool {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}

// Profile is the account view assembled from session state.
type Profile struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Theme    string `json:"theme"`
}
