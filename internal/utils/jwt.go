package utils

import (
	"errors" // Token type mismatch
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Token types
const (
	AccessToken  = "access"  // Authenticates API requests
	RefreshToken = "refresh" // Only exchanges for a new access token
)

// ErrWrongTokenType is returned when a refresh token is used as an access token or vice versa
var ErrWrongTokenType = errors.New("wrong token type")

// JWT Claims
type Claims struct {
	UserID               uint   `json:"user_id"`    // Custom claim for user ID
	TokenType            string `json:"token_type"` // access or refresh
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a signed token of the given type for a user ID
func GenerateJWT(userID uint, tokenType, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		UserID:    userID,    // Custom claim for user ID
		TokenType: tokenType, // Token type
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a token string and checks its type
func ParseJWT(tokenStr, tokenType, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid // Return error if token is invalid
	}
	// Reject tokens of the other type
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
