package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/elskow/homecook/internal/config"
)

const (
	// ClaimsContextKey is the locals key under which verified claims are
	// stored for downstream handlers.
	ClaimsContextKey = "claims"

	bearerPrefix = "Bearer "
)

type Middleware struct {
	config *config.AuthConfig
}

func NewMiddleware(config *config.AuthConfig) *Middleware {
	return &Middleware{
		config: config,
	}
}

// RequireAuth guards protected routes. A missing or malformed Authorization
// header and a failing token get distinct messages, matching the public API
// contract.
func (m *Middleware) RequireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing bearer token")
	}

	token := strings.TrimPrefix(header, bearerPrefix)

	claims, err := validateToken(token, m.config.JWTSecret)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	c.Locals(ClaimsContextKey, claims)
	return c.Next()
}

// ClaimsFromContext returns the claims attached by RequireAuth.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals(ClaimsContextKey).(*Claims)
	if !ok {
		return nil, errors.New("claims not found in context")
	}
	return claims, nil
}

func validateToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
