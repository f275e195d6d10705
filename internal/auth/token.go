package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig holds the signing parameters for access tokens.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// IssueToken creates a signed HS256 access token for the given agent id.
// The subject is always embedded as a string, never as a JSON number.
func IssueToken(config TokenConfig, agentID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(agentID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(config.TTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature and expiry and returns the agent id the
// token was issued for. Tokens issued before the rewrite carried the
// subject as a JSON number, so both encodings are accepted; the numeric
// form can be dropped once all such tokens have aged past their TTL.
func VerifyToken(config TokenConfig, tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return 0, ErrInvalidToken
		}
		return id, nil
	case float64:
		return int64(sub), nil
	default:
		return 0, ErrInvalidToken
	}
}

// TokenExpiry reports when the token expires without verifying its
// signature. Used on logout to bound the revocation entry's lifetime.
func TokenExpiry(tokenStr string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrInvalidToken
	}
	return exp.Time, nil
}
