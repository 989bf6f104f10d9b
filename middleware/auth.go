package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey = "user_id"
	tokenKey  = "token"
)

var errNoBearer = errors.New("missing bearer token")

// parseBearer verifies an HS256 token from the Authorization header and
// returns its subject.
func parseBearer(header string, secret []byte) (string, string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", "", errNoBearer
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenString == "" {
		return "", "", errNoBearer
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", "", errors.New("token has no subject")
	}
	return subject, tokenString, nil
}

// RequireUser rejects requests without a valid bearer token.
func RequireUser(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header is missing"})
			return
		}
		subject, token, err := parseBearer(header, key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}
		c.Set(userIDKey, subject)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// OptionalUser attaches the user when a valid token is present and lets
// every request through.
func OptionalUser(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if subject, token, err := parseBearer(c.GetHeader("Authorization"), key); err == nil {
			c.Set(userIDKey, subject)
			c.Set(tokenKey, token)
		}
		c.Next()
	}
}

// UserID returns the authenticated subject, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
