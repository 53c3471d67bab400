package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Keys under which the caller is stored, both in the session and in the gin context
const (
	UserIDKey   = "userId"
	UserNameKey = "userName"
)

var ErrMissingAuthHeader = errors.New("missing Authorization header")

// PlayerClaims identifies a player. There are no accounts: a token just binds an id to a display name.
type PlayerClaims struct {
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

// IssueToken signs a HS256 token for userID valid for ttl
func IssueToken(secret, userID, userName string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := PlayerClaims{
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates a token issued by IssueToken
func ParseToken(tokenStr, secret string) (*PlayerClaims, error) {
	claims := &PlayerClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", jwt.ErrTokenMalformed
	}
	return parts[1], nil
}

// AuthRequired identifies the caller from a bearer token, or failing that from the
// session cookie, and aborts with 401 when neither is present.
func AuthRequired(secret string) gin.HandlerFunc {
	if secret == "" {
		panic("JWT secret cannot be empty for AuthRequired")
	}
	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err == nil {
			claims, err := ParseToken(tokenStr, secret)
			if err != nil {
				logrus.WithError(err).Warn("[AUTH] invalid token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "code": "AUTHORIZATION"})
				return
			}
			c.Set(UserIDKey, claims.Subject)
			c.Set(UserNameKey, claims.UserName)
			c.Next()
			return
		}
		if !errors.Is(err, ErrMissingAuthHeader) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format", "code": "AUTHORIZATION"})
			return
		}

		session := sessions.Default(c)
		userID, _ := session.Get(UserIDKey).(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "AUTHORIZATION"})
			return
		}
		userName, _ := session.Get(UserNameKey).(string)
		c.Set(UserIDKey, userID)
		c.Set(UserNameKey, userName)
		c.Next()
	}
}

// Caller returns the authenticated player of the request
func Caller(c *gin.Context) (userID, userName string) {
	return c.GetString(UserIDKey), c.GetString(UserNameKey)
}
