package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/brnlabs/staffdesk/config"
	"github.com/brnlabs/staffdesk/internal/adapters/authroles"
	"github.com/brnlabs/staffdesk/internal/adapters/devauth"
	"github.com/brnlabs/staffdesk/internal/adapters/oidc"
	redisadapter "github.com/brnlabs/staffdesk/internal/adapters/redis"
	"github.com/brnlabs/staffdesk/internal/adapters/tokens"
	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
	"github.com/brnlabs/staffdesk/internal/observability/statsd"
	"github.com/brnlabs/staffdesk/internal/ports"
	"github.com/brnlabs/staffdesk/internal/service"
)

// AuthDeps contains dependencies for building the auth service.
type AuthDeps struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Users       ports.UserDirectory
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Every mode supports form login against the local users table; oauth and
// mock additionally wire an SSO provider. The second return reports whether
// an SSO provider is actually available, which controls the /auth/login
// redirect routes. Returns nil when sessions cannot be stored, which
// disables all authenticated routes.
func BuildAuthService(deps AuthDeps) (*service.AuthService, bool) {
	if deps.RedisClient == nil {
		if deps.Logger != nil {
			deps.Logger.Warn("auth service disabled: redis client not configured", "mode", deps.Auth.Mode)
		}
		return nil, false
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:")

	// Form logins carry no provider groups, so unmatched identities default
	// to the regular user role rather than guest.
	roleMapper := authroles.StaticRoleMapper{
		AdminGroup: deps.Auth.AdminGroup,
		UserGroup:  deps.Auth.UserGroup,
		Default:    domainauth.RoleUser,
	}

	issuer, err := tokens.NewJWTIssuer(tokens.Config{
		Secret:   []byte(deps.Auth.JWTSecret),
		Issuer:   "staffdesk",
		TokenTTL: deps.Auth.SessionTTL,
	})
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("failed to create token issuer, API token login disabled", "error", err)
		}
		issuer = nil
	}

	opts := service.AuthServiceOptions{
		Sessions:   sessionStore,
		Roles:      roleMapper,
		Users:      deps.Users,
		Metrics:    deps.Metrics,
		SessionTTL: deps.Auth.SessionTTL,
	}
	if issuer != nil {
		opts.Tokens = issuer
	}

	switch deps.Auth.Mode {
	case config.AuthModeMock:
		opts.Provider = buildDevProvider(deps)
	case config.AuthModeOAuth:
		opts.Provider = buildOIDCProvider(deps)
	case config.AuthModeForm:
		// no SSO provider; form login only
	}

	return service.NewAuthService(opts), opts.Provider != nil
}

// buildDevProvider builds a local provider for explicitly enabled dev auth.
//
//nolint:ireturn // ports.AuthProvider keeps provider selection mode-driven.
func buildDevProvider(deps AuthDeps) ports.AuthProvider {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID: deps.Auth.DevAuth.UserID,
		Email:  deps.Auth.DevAuth.Email,
		Groups: deps.Auth.DevAuth.Groups,
		// session duration defaults inside provider
	})
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("failed to create dev auth provider, SSO disabled", "error", err)
		}
		return nil
	}
	return prov
}

// buildOIDCProvider builds the OIDC provider when fully configured.
//
//nolint:ireturn // ports.AuthProvider keeps provider selection mode-driven.
func buildOIDCProvider(deps AuthDeps) ports.AuthProvider {
	oauth := deps.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if deps.Logger != nil {
			deps.Logger.Warn("AuthModeOAuth selected but required config missing; SSO disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
		GroupsExpr:   oauth.GroupsExpr,
	})
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("failed to create OIDC provider, SSO disabled", "error", err)
		}
		return nil
	}
	return prov
}
