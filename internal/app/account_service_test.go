package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/sessionware/internal/domain"
	"github.com/jsamuelsen/sessionware/internal/mocks"
	"github.com/jsamuelsen/sessionware/internal/session"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(flags *mocks.MockFeatureFlags) *AccountService {
	cfg := AccountServiceConfig{Logger: discardLogger()}
	if flags != nil {
		cfg.Flags = flags
	}

	return NewAccountService(cfg)
}

func TestNewAccountService_DefaultsLogger(t *testing.T) {
	svc := NewAccountService(AccountServiceConfig{})

	require.NotNil(t, svc)
	assert.NotNil(t, svc.logger)
}

func TestAccountService_SignIn(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		userName   string
		setupFlags func(*mocks.MockFeatureFlags)
		wantNotice bool
		errCheck   func(error) bool
	}{
		{
			name:       "success with welcome notice",
			userID:     "user-42",
			userName:   "Ada",
			wantNotice: true,
		},
		{
			name:     "welcome notice disabled by flag",
			userID:   "user-42",
			userName: "Ada",
			setupFlags: func(m *mocks.MockFeatureFlags) {
				m.EXPECT().IsEnabled(mock.Anything, "welcome-notice", true).Return(false)
			},
			wantNotice: false,
		},
		{
			name:     "empty user id",
			userID:   "",
			userName: "Ada",
			errCheck: domain.IsValidation,
		},
		{
			name:     "empty user name",
			userID:   "user-42",
			userName: "",
			errCheck: domain.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags *mocks.MockFeatureFlags
			if tt.setupFlags != nil {
				flags = mocks.NewMockFeatureFlags(t)
				tt.setupFlags(flags)
			}

			svc := newService(flags)
			sess := session.New("sess-1", nil)

			err := svc.SignIn(context.Background(), sess, tt.userID, tt.userName)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
				assert.Empty(t, sess.Keys(), "failed sign-in must not write session state")

				return
			}

			require.NoError(t, err)

			assert.Equal(t, tt.userID, sess.Get(domain.SessionKeyUserID))
			assert.Equal(t, tt.userName, sess.Get(domain.SessionKeyUserName))

			if tt.wantNotice {
				require.True(t, sess.Has(domain.SessionKeyNotice), "welcome notice should be flashed")

				notice, isNotice := sess.Get(domain.SessionKeyNotice).(domain.Notice)
				require.True(t, isNotice)
				assert.Equal(t, domain.NoticeSuccess, notice.Kind)
				assert.Contains(t, notice.Message, tt.userName)
			} else {
				assert.False(t, sess.Has(domain.SessionKeyNotice), "welcome notice should be suppressed")
			}
		})
	}
}

func TestAccountService_SignOut(t *testing.T) {
	svc := newService(nil)
	sess := session.New("sess-1", map[string]any{
		domain.SessionKeyUserID:   "user-42",
		domain.SessionKeyUserName: "Ada",
		domain.SessionKeyTheme:    domain.ThemeDark,
	})

	svc.SignOut(context.Background(), sess)

	assert.Equal(t, "sess-1", sess.ID(), "sign-out keeps the session identity")
	assert.Empty(t, sess.Keys(), "sign-out wipes all non-flash state")

	require.True(t, sess.Has(domain.SessionKeyNotice), "sign-out flashes a notice")

	notice, isNotice := sess.Get(domain.SessionKeyNotice).(domain.Notice)
	require.True(t, isNotice)
	assert.Equal(t, domain.NoticeInfo, notice.Kind)
}

func TestAccountService_SetTheme(t *testing.T) {
	tests := []struct {
		name     string
		theme    string
		errCheck func(error) bool
	}{
		{name: "light", theme: domain.ThemeLight},
		{name: "dark", theme: domain.ThemeDark},
		{name: "system", theme: domain.ThemeSystem},
		{name: "unknown theme", theme: "neon", errCheck: domain.IsValidation},
		{name: "empty theme", theme: "", errCheck: domain.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(nil)
			sess := session.New("sess-1", nil)

			err := svc.SetTheme(context.Background(), sess, tt.theme)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
				assert.False(t, sess.Has(domain.SessionKeyTheme), "rejected theme must not be stored")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.theme, sess.Get(domain.SessionKeyTheme))
		})
	}
}

func TestAccountService_Profile(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]any
		want     *domain.Profile
		errCheck func(error) bool
	}{
		{
			name: "signed in with theme",
			data: map[string]any{
				domain.SessionKeyUserID:   "user-42",
				domain.SessionKeyUserName: "Ada",
				domain.SessionKeyTheme:    domain.ThemeDark,
			},
			want: &domain.Profile{UserID: "user-42", UserName: "Ada", Theme: domain.ThemeDark},
		},
		{
			name: "theme defaults when unset",
			data: map[string]any{
				domain.SessionKeyUserID:   "user-42",
				domain.SessionKeyUserName: "Ada",
			},
			want: &domain.Profile{UserID: "user-42", UserName: "Ada", Theme: domain.DefaultTheme},
		},
		{
			name:     "not signed in",
			data:     map[string]any{domain.SessionKeyTheme: domain.ThemeLight},
			errCheck: domain.IsUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(nil)
			sess := session.New("sess-1", tt.data)

			profile, err := svc.Profile(context.Background(), sess)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
				assert.Nil(t, profile)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, profile)
		})
	}
}

func TestAccountService_PopNotice(t *testing.T) {
	svc := newService(nil)
	sess := session.New("sess-1", nil)
	sess.Flash(domain.SessionKeyNotice, domain.NewNotice(domain.NoticeSuccess, "saved"))

	notice, ok := svc.PopNotice(context.Background(), sess)

	require.True(t, ok)
	assert.Equal(t, "saved", notice.Message)

	// Draining is one-shot.
	_, ok = svc.PopNotice(context.Background(), sess)
	assert.False(t, ok)
}

func TestAccountService_PopNotice_AfterRoundTrip(t *testing.T) {
	svc := newService(nil)

	// A session store decoding JSON hands back maps, not Notice values.
	sess := session.New("sess-1", map[string]any{
		"__flash_notice__": map[string]any{"kind": "success", "message": "saved"},
	})

	notice, ok := svc.PopNotice(context.Background(), sess)

	require.True(t, ok)
	assert.Equal(t, domain.NoticeSuccess, notice.Kind)
	assert.Equal(t, "saved", notice.Message)
}

func TestAccountService_PopNotice_UnexpectedType(t *testing.T) {
	svc := newService(nil)
	sess := session.New("sess-1", nil)
	sess.Flash(domain.SessionKeyNotice, "not a notice")

	_, ok := svc.PopNotice(context.Background(), sess)

	assert.False(t, ok)
}
