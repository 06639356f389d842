package middleware

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bookshelf/models"
	"bookshelf/permissions"
	"bookshelf/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	CallerKey = "caller"
	UserIDKey = "user_id"
)

// CallerResolver turns a token subject into the identity checked by the gate.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, userID uint) (*permissions.Caller, error)
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(tokens *utils.TokenManager, resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			log.Println("No token provided")
			abortWith(c, fmt.Errorf("%w: no token provided", models.ErrUnauthenticated))
			return
		}

		if err := authenticate(c, tokens, resolver, token); err != nil {
			abortWith(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller when a token is present and lets anonymous
// requests through. A bad token is still rejected.
func OptionalAuth(tokens *utils.TokenManager, resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		if err := authenticate(c, tokens, resolver, token); err != nil {
			abortWith(c, err)
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens *utils.TokenManager, resolver CallerResolver, token string) error {
	userID, err := tokens.ValidateJWT(token)
	if err != nil {
		log.Printf("Token validation failed: %v", err)
		return fmt.Errorf("%w: invalid token", models.ErrUnauthenticated)
	}

	caller, err := resolver.ResolveCaller(c.Request.Context(), userID)
	if err != nil {
		return err
	}

	c.Set(UserIDKey, userID)
	c.Set(CallerKey, caller)
	return nil
}

// extractToken reads the bearer header, or the token query parameter on
// websocket upgrades where browsers cannot set headers.
func extractToken(c *gin.Context) string {
	if websocket.IsWebSocketUpgrade(c.Request) {
		if token := c.Query("token"); token != "" {
			return token
		}
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// CallerFrom returns the authenticated caller or nil for anonymous requests.
func CallerFrom(c *gin.Context) *permissions.Caller {
	value, ok := c.Get(CallerKey)
	if !ok {
		return nil
	}
	caller, _ := value.(*permissions.Caller)
	return caller
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
