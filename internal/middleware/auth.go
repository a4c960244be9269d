// Package middleware provides the HTTP middleware chain shared by every route.
package middleware

import (
	"errors"
	"strconv"
	"strings"

	"folio/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// Issuer and audience stamped into every access token.
const (
	TokenIssuer   = "folio-api"
	TokenAudience = "folio-client"
)

var (
	errMissingToken  = errors.New("authorization header required")
	errBadFormat     = errors.New("invalid authorization header format")
	errInvalidToken  = errors.New("invalid or expired token")
	errInvalidClaims = errors.New("invalid token claims")
)

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired rejects requests without a valid bearer token and stores the
// caller's id in c.Locals("userID").
func AuthRequired(c *fiber.Ctx) error {
	token, err := bearerToken(c.Get("Authorization"))
	if err != nil {
		return unauthorized(c, err)
	}
	userID, err := ParseUserToken(token)
	if err != nil {
		return unauthorized(c, err)
	}
	c.Locals("userID", userID)
	return c.Next()
}

// OptionalAuth sets c.Locals("userID") when a valid bearer token is present
// and otherwise lets the request through anonymously.
func OptionalAuth(c *fiber.Ctx) error {
	if token, err := bearerToken(c.Get("Authorization")); err == nil {
		if userID, err := ParseUserToken(token); err == nil {
			c.Locals("userID", userID)
		}
	}
	return c.Next()
}

// WebSocketAuthRequired validates a token passed as ?token= (browsers cannot
// set headers on websocket upgrades) and falls back to the Authorization header.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		var err error
		if token, err = bearerToken(c.Get("Authorization")); err != nil {
			return unauthorized(c, err)
		}
	}
	userID, err := ParseUserToken(token)
	if err != nil {
		return unauthorized(c, err)
	}
	c.Locals("userID", userID)
	return c.Next()
}

// ParseUserToken validates an HS256 token and returns the user id from its "sub" claim.
func ParseUserToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(TokenIssuer), jwt.WithAudience(TokenAudience))
	if err != nil || !token.Valid {
		return 0, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidClaims
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errInvalidClaims
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, errInvalidClaims
	}
	return uint(userID), nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errBadFormat
	}
	return parts[1], nil
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": err.Error(),
		"code":  "UNAUTHORIZED",
	})
}
