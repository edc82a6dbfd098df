package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeForm uses local form-based login against the users table.
	AuthModeForm AuthMode = "form"
	// AuthModeOAuth uses OAuth/OIDC single sign-on in addition to form login.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "form", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: form, oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"staffdesk"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"staffdesk"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8000/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`

	// GroupsExpr is a JMESPath expression that extracts group names from the
	// provider's claims. The default covers the common "groups" claim.
	GroupsExpr string `env:"GROUPS_EXPR" envDefault:"groups"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"staff"          envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"form"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionTTL is how long a login session stays valid.
	// Defaults to ten days, matching the API token lifetime.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"240h"`

	// JWTSecret signs API tokens returned by the JSON login endpoint.
	JWTSecret string `env:"JWT_SECRET" envDefault:"change_this_secret_in_prod"`

	// AdminGroup is the provider group that maps to the admin role.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"staffdesk-admins"`

	// UserGroup is the provider group that maps to the regular user role.
	UserGroup string `env:"USER_GROUP" envDefault:"staff"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 240 * time.Hour
	}
}
