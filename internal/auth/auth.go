// Package auth decides whether a request may use the CMS. Permission is
// carried by an HS256 JWT in the Authorization header or a session cookie.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JaimeStill/djedi/internal/config"
)

// Claims identifies a CMS user.
type Claims struct {
	Groups    []string `json:"groups,omitempty"`
	Superuser bool     `json:"superuser,omitempty"`
	Active    bool     `json:"active"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies permission tokens.
type Authenticator struct {
	secret []byte
	issuer string
	group  string
	cookie string
	parser *jwt.Parser
}

func New(cfg *config.AuthConfig) *Authenticator {
	return &Authenticator{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		group:  cfg.Group,
		cookie: cfg.Cookie,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// Issue mints an active user token valid for ttl.
func (a *Authenticator) Issue(subject string, groups []string, superuser bool, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", ErrDisabled
	}
	if subject == "" {
		return "", errors.New("subject required")
	}

	now := time.Now()
	claims := Claims{
		Groups:    groups,
		Superuser: superuser,
		Active:    true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns its claims.
func (a *Authenticator) Parse(raw string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, ErrDisabled
	}

	var claims Claims
	_, err := a.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}

// Authorize returns the claims of r when they grant CMS permission.
func (a *Authenticator) Authorize(r *http.Request) (*Claims, error) {
	raw := a.credentials(r)
	if raw == "" {
		return nil, ErrNoCredentials
	}

	claims, err := a.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !claims.Active {
		return nil, ErrInactive
	}
	if !claims.Superuser && !slices.Contains(claims.Groups, a.group) {
		return nil, ErrForbidden
	}
	return claims, nil
}

// HasPermission reports whether r carries a token granting CMS permission.
func (a *Authenticator) HasPermission(r *http.Request) bool {
	_, err := a.Authorize(r)
	return err == nil
}

func (a *Authenticator) credentials(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if a.cookie != "" {
		if c, err := r.Cookie(a.cookie); err == nil {
			return c.Value
		}
	}
	return ""
}
