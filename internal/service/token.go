package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
)

// ScannerClaims is the signed session payload issued at scanner login.
// It only proves identity: event/assignment authorization is re-checked on
// every redemption call, so deactivating or unassigning a scanner takes
// effect immediately.
type ScannerClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) Mint(scannerID, name string) (string, error) {
	now := time.Now()
	claims := ScannerClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   scannerID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Parse(tokenString string) (*ScannerClaims, error) {
	claims := &ScannerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.InvalidToken("Invalid or expired session token").WithCause(err)
	}
	if claims.Subject == "" {
		return nil, apperrors.InvalidToken("Session token missing subject")
	}
	return claims, nil
}
