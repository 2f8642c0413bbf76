package ports

import (
	"context"
	"os"
	"strconv"
	"strings"
)

// FeatureFlags defines the contract for feature flag evaluation.
// This port allows the application to check feature enablement without
// knowing the underlying provider.
//
// Always provide default values for graceful degradation; evaluation is
// synchronous and must never fail the calling operation.
type FeatureFlags interface {
	// IsEnabled checks if a boolean feature flag is enabled.
	// Returns defaultValue if the flag doesn't exist or evaluation fails.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool

	// GetString retrieves a string feature flag value.
	// Returns defaultValue if the flag doesn't exist or evaluation fails.
	GetString(ctx context.Context, flag string, defaultValue string) string
}

// EnvFlags evaluates feature flags from environment variables. It is the
// default provider for deployments without a flag service: the flag
// "welcome-notice" is read from APP_FLAG_WELCOME_NOTICE.
type EnvFlags struct {
	prefix string
}

var _ FeatureFlags = (*EnvFlags)(nil)

// NewEnvFlags creates an environment-backed flag provider. An empty prefix
// defaults to "APP_FLAG_".
func NewEnvFlags(prefix string) *EnvFlags {
	if prefix == "" {
		prefix = "APP_FLAG_"
	}

	return &EnvFlags{prefix: prefix}
}

// IsEnabled parses the flag's environment variable as a boolean.
func (f *EnvFlags) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	raw, ok := os.LookupEnv(f.key(flag))
	if !ok {
		return defaultValue
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}

	return value
}

// GetString returns the flag's environment variable verbatim.
func (f *EnvFlags) GetString(_ context.Context, flag string, defaultValue string) string {
	if raw, ok := os.LookupEnv(f.key(flag)); ok {
		return raw
	}

	return defaultValue
}

var flagKeyReplacer = strings.NewReplacer("-", "_", ".", "_")

func (f *EnvFlags) key(flag string) string {
	return f.prefix + strings.ToUpper(flagKeyReplacer.Replace(flag))
}
