package tokens

// Package tokens issues and verifies the signed bearer tokens returned by the
// JSON login endpoint. Browser sessions live in the session store; these
// tokens exist for API clients that cannot hold a cookie.

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
)

const defaultTokenTTL = 240 * time.Hour

// ErrInvalidToken is returned for any token that fails signature or claim
// validation. Callers get no detail about which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Config controls the JWT issuer.
type Config struct {
	Secret   []byte
	Issuer   string
	TokenTTL time.Duration    // default 240h when zero
	Now      func() time.Time // default time.Now
}

// JWTIssuer implements ports.TokenIssuer using HMAC-SHA256 signed JWTs.
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type identityClaims struct {
	jwt.RegisteredClaims
	GivenName  string   `json:"given_name,omitempty"`
	FamilyName string   `json:"family_name,omitempty"`
	Email      string   `json:"email"`
	Groups     []string `json:"groups,omitempty"`
}

// NewJWTIssuer constructs a JWTIssuer from Config.
func NewJWTIssuer(cfg Config) (*JWTIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &JWTIssuer{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// Issue mints a signed token for the identity. When the identity carries an
// expiry in the future it is used as-is; otherwise the configured TTL applies.
func (j *JWTIssuer) Issue(identity domainauth.Identity) (string, error) {
	if identity.Email == "" {
		return "", errors.New("identity email is required")
	}

	now := j.now().UTC()
	expiresAt := identity.ExpiresAt.UTC()
	if !expiresAt.After(now) {
		expiresAt = now.Add(j.ttl)
	}

	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		GivenName:  identity.FirstName,
		FamilyName: identity.LastName,
		Email:      identity.Email,
		Groups:     identity.Groups,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the identity it carries.
func (j *JWTIssuer) Verify(tokenString string) (domainauth.Identity, error) {
	var claims identityClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if j.issuer != "" && claims.Issuer != j.issuer {
		return domainauth.Identity{}, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	if claims.Email == "" {
		return domainauth.Identity{}, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}

	return domainauth.Identity{
		UserID:    claims.Subject,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
		Email:     claims.Email,
		Groups:    claims.Groups,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
