package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned for a control token that does not verify,
// has expired or was issued for another match.
var ErrInvalidToken = errors.New("invalid control token")

const controlRole = "control"

// IssueControlToken signs an HS256 token that lets its bearer drive one match.
func IssueControlToken(secret, matchID string, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"match_id": matchID,
		"role":     controlRole,
		"iat":      time.Now().Unix(),
		"exp":      exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign control token: %w", err)
	}
	return signed, exp, nil
}

// ParseControlToken verifies a control token and returns the match id it
// was issued for.
func ParseControlToken(secret, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if role, _ := claims["role"].(string); role != controlRole {
		return "", ErrInvalidToken
	}
	matchID, _ := claims["match_id"].(string)
	if matchID == "" {
		return "", ErrInvalidToken
	}
	return matchID, nil
}

// VerifyControlToken checks that token controls matchID.
func VerifyControlToken(secret, token, matchID string) error {
	id, err := ParseControlToken(secret, token)
	if err != nil {
		return err
	}
	if id != matchID {
		return ErrInvalidToken
	}
	return nil
}
