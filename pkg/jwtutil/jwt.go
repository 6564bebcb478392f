package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"tenancy-service/pkg/config"
)

var (
	secret     = []byte("secret-key")
	expiration = time.Hour * 24
)

// Initialize configures the signing key and token lifetime from config.
func Initialize(cfg *config.JWTConfig) {
	if cfg.SigningKey != "" {
		secret = []byte(cfg.SigningKey)
	}
	if cfg.ExpirationHours > 0 {
		expiration = time.Duration(cfg.ExpirationHours) * time.Hour
	}
}

// UserClaims represents the JWT claims for user authentication. Tokens
// carry the active organization context so downstream services can scope
// requests without a database round-trip.
type UserClaims struct {
	Email            string   `json:"email"`
	UserID           uint     `json:"user_id"`
	OrganizationID   *uint    `json:"organization_id,omitempty"`
	OrganizationName string   `json:"organization_name,omitempty"`
	Roles            []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token with user information only.
func GenerateToken(email string, userID uint) (string, error) {
	return GenerateTokenWithOrganization(email, userID, nil, "", nil)
}

// GenerateTokenWithOrganization creates a JWT token with user and active
// organization information.
func GenerateTokenWithOrganization(email string, userID uint, organizationID *uint, organizationName string, roles []string) (string, error) {
	claims := UserClaims{
		Email:            email,
		UserID:           userID,
		OrganizationID:   organizationID,
		OrganizationName: organizationName,
		Roles:            roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
