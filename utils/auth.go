package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// JWT Secret Key
var JwtKey = []byte("your_secret_key") // This will be loaded from config

// Claims represents the JWT claims
type Claims struct {
	Phone string `json:"phone_number,omitempty"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// GenerateSessionToken issues a customer session for a verified phone
func GenerateSessionToken(phone string, ttl time.Duration) (string, error) {
	return generateJWT(&Claims{Phone: phone, Role: RoleCustomer}, ttl)
}

// GenerateAdminToken issues a session for the dashboard
func GenerateAdminToken(ttl time.Duration) (string, error) {
	return generateJWT(&Claims{Role: RoleAdmin}, ttl)
}

func generateJWT(claims *Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(ttl).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(JwtKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseToken validates the signature and expiry of a token
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return JwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
