// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/acadmix/server/internal/config"
	"github.com/acadmix/server/internal/core"
	"github.com/acadmix/server/internal/middleware"
)

// Claims is the identity embedded in every issued token.
type Claims struct {
	UserID    string
	ProfileID string
	Email     string
	Role      string
}

// TokenManager issues and verifies HS256-signed access and refresh tokens.
// The two token kinds use independent secrets and TTLs so a leaked refresh
// secret does not compromise access tokens, and vice versa.
type TokenManager struct {
	accessKey  jwk.Key
	refreshKey jwk.Key
	config     config.JWTConfig
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	accessKey, err := jwk.Import([]byte(cfg.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("import access secret: %w", err)
	}

	refreshKey, err := jwk.Import([]byte(cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("import refresh secret: %w", err)
	}

	return &TokenManager{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		config:     cfg,
	}, nil
}

func (m *TokenManager) CreateAccessToken(claims Claims) (string, error) {
	return m.create(claims, "access", m.accessKey, m.config.AccessTokenExpire)
}

func (m *TokenManager) CreateRefreshToken(claims Claims) (string, error) {
	return m.create(claims, "refresh", m.refreshKey, m.config.RefreshTokenExpire)
}

func (m *TokenManager) create(
	claims Claims,
	tokenType string,
	key jwk.Key,
	ttl time.Duration,
) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		NotBefore(now).
		Claim("profile_id", claims.ProfileID).
		Claim("email", claims.Email).
		Claim("role", claims.Role).
		Claim("type", tokenType).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (m *TokenManager) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := m.verify(tokenString, "access", m.accessKey)
	if err != nil {
		return nil, err
	}

	return &middleware.AccessTokenClaims{
		UserID:    claims.UserID,
		ProfileID: claims.ProfileID,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}

func (m *TokenManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, "refresh", m.refreshKey)
}

func (m *TokenManager) verify(
	tokenString, tokenType string,
	key jwk.Key,
) (*Claims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var gotType string
	if err := token.Get("type", &gotType); err != nil || gotType != tokenType {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &Claims{UserID: subject}

	if err := token.Get("profile_id", &claims.ProfileID); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing profile_id claim: %w",
			core.ErrTokenInvalid,
		)
	}

	if err := token.Get("email", &claims.Email); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing email claim: %w",
			core.ErrTokenInvalid,
		)
	}

	if err := token.Get("role", &claims.Role); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	return claims, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
