package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"echobox/internal/models"
)

// JWTKey is set from config at startup.
var JWTKey = []byte("dev-secret")

const (
	// SessionCookie carries the token for browser clients; API clients use
	// the Authorization header.
	SessionCookie = "access_token"
	SessionTTL    = 24 * time.Hour
)

// Claims is the Identity projection plus registered JWT claims. Never put
// the credential hash here.
type Claims struct {
	UserID         int    `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	IsVerified     bool   `json:"is_verified"`
	AcceptMessages bool   `json:"is_accepting_messages"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() models.Identity {
	return models.Identity{
		ID:             c.UserID,
		Username:       c.Username,
		Email:          c.Email,
		IsVerified:     c.IsVerified,
		AcceptMessages: c.AcceptMessages,
	}
}

// NewSessionToken signs a session token carrying the Identity projection.
func NewSessionToken(id models.Identity) (string, error) {
	claims := &Claims{
		UserID:         id.ID,
		Username:       id.Username,
		Email:          id.Email,
		IsVerified:     id.IsVerified,
		AcceptMessages: id.AcceptMessages,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTKey)
}

// public endpoints that never require a token
func isPublicPath(path string) bool {
	switch path {
	case "/api/sign-in", "/api/sign-up", "/api/verify-code",
		"/api/check-username", "/api/send-message", "/api/suggest-messages":
		return true
	}
	return strings.HasPrefix(path, "/healthz")
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			// browser clients carry the token in a cookie
			if v, err := c.Cookie(SessionCookie); err == nil {
				tokenStr = v
			}
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
			// accept HMAC only
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return JWTKey, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}
		if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		// identity is passed explicitly through the request context
		c.Set("user_id", claims.UserID)
		c.Set("identity", claims.Identity())

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
