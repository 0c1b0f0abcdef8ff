package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role allowed to use the console.
const RoleAdmin = "admin"

// ErrNotOperator is returned for valid tokens that do not carry the admin role.
var ErrNotOperator = errors.New("token does not belong to an operator")

type operatorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Operator identifies the person behind a console request.
type Operator struct {
	ID   string
	Role string
}

// GenerateToken creates a signed operator JWT. Tokens are normally issued by the
// platform's auth service; this is used by tests and local tooling.
func GenerateToken(secret, operatorID, role string, ttl time.Duration) (string, error) {
	claims := &operatorClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the operator it was issued to.
func ParseToken(secret, tokenString string) (Operator, error) {
	token, err := jwt.ParseWithClaims(tokenString, &operatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Operator{}, err
	}

	claims, ok := token.Claims.(*operatorClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Operator{}, jwt.ErrTokenInvalidClaims
	}
	if claims.Role != RoleAdmin {
		return Operator{}, ErrNotOperator
	}

	return Operator{ID: claims.Subject, Role: claims.Role}, nil
}
