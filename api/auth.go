package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type SupabaseJWT struct {
	Audience    string  `json:"aud"`
	Email       *string `json:"email"`
	ExpiresAt   int64   `json:"exp"`
	IssuedAt    int64   `json:"iat"`
	IsAnonymous bool    `json:"is_anonymous"`
	Issuer      string  `json:"iss"`
	Role        string  `json:"role"`
	SessionID   string  `json:"session_id"`
	Subject     string  `json:"sub"`
}

func parseSupabaseJWT(jwtStr string, decodeToken string) (*SupabaseJWT, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(decodeToken), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse claims")
	}

	parsedJWT := SupabaseJWT{}
	if sub, ok := claims["sub"].(string); ok {
		parsedJWT.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		parsedJWT.Role = role
	}
	if exp, ok := claims["exp"].(float64); ok {
		parsedJWT.ExpiresAt = int64(exp)
	}

	if time.Now().UTC().Unix() > parsedJWT.ExpiresAt {
		return nil, fmt.Errorf("jwt is expired")
	}

	return &parsedJWT, nil
}

// getOptionalUserID scopes connector CRUD to the authenticated user.
// Requests without a bearer token see only unowned connectors.
func (m ApiHandler) getOptionalUserID(c *gin.Context) (*uuid.UUID, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	jwtStr := strings.TrimPrefix(authHeader, "Bearer ")
	parsed, err := parseSupabaseJWT(jwtStr, m.JwtDecodeToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return nil, fmt.Errorf("jwt subject is not a user id: %w", err)
	}

	return &userID, nil
}
