package mockapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skilllink/skilllink-client/internal/core/domain"
)

// Demo tokens are genuine HS256 JWTs so the client's expiry logic behaves
// identically in demo and live mode.

func (s *Service) mintAccessToken(u domain.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.Base().ID,
		"email": u.Base().Email,
		"role":  string(u.Role()),
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("mint access token: %w", err)
	}
	return signed, nil
}

func (s *Service) mintRefreshToken(u domain.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": u.Base().ID,
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(s.refreshTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("mint refresh token: %w", err)
	}
	return signed, nil
}

// parseRefreshToken validates signature, expiry and the refresh type marker,
// returning the subject user id.
func (s *Service) parseRefreshToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidCredentials
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return "", domain.ErrInvalidCredentials
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrInvalidCredentials
	}
	return sub, nil
}
