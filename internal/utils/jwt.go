package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func SignJWT(secret string, userID string, role string, expiresMin int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresMin) * time.Minute)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseJWT validates signature, algorithm and expiry. An expired but otherwise
// valid token yields ErrTokenExpired; everything else yields ErrTokenInvalid.
func ParseJWT(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// JWTManager binds the signing secret and lifetime so callers only deal with
// identities.
type JWTManager struct {
	Secret     string
	ExpiresMin int
}

func NewJWTManager(secret string, expiresMin int) *JWTManager {
	if expiresMin <= 0 {
		expiresMin = 10080
	}
	return &JWTManager{Secret: secret, ExpiresMin: expiresMin}
}

func (m *JWTManager) Sign(userID, role string) (string, error) {
	return SignJWT(m.Secret, userID, role, m.ExpiresMin)
}

func (m *JWTManager) Parse(token string) (*Claims, error) {
	return ParseJWT(m.Secret, token)
}
