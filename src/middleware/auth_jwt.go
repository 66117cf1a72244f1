package middleware

import (
	"log"
	"strings"
	"time"

	"forms-backend/src/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const claimsKey = "claims"

// APIKeyHeader carries the admin API key, checked against a bcrypt hash.
const APIKeyHeader = "X-API-Key"

// Auth builds the authentication and role gates used by the routes.
type Auth struct {
	secret     []byte
	apiKeyHash []byte
	blacklist  *utils.TokenBlacklist
}

func NewAuth(secret, apiKeyHash string, blacklist *utils.TokenBlacklist) *Auth {
	a := &Auth{secret: []byte(secret), blacklist: blacklist}
	if apiKeyHash != "" {
		a.apiKeyHash = []byte(apiKeyHash)
	}
	return a
}

// ClaimsFrom returns the authenticated caller, or nil for anonymous requests.
func ClaimsFrom(c *fiber.Ctx) *utils.JWTClaims {
	claims, _ := c.Locals(claimsKey).(*utils.JWTClaims)
	return claims
}

// BearerToken returns the raw token of the Authorization header.
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// authenticate resolves the caller from the API key or the bearer token.
func (a *Auth) authenticate(c *fiber.Ctx) (*utils.JWTClaims, string) {
	if key := c.Get(APIKeyHeader); key != "" && a.apiKeyHash != nil {
		if bcrypt.CompareHashAndPassword(a.apiKeyHash, []byte(key)) != nil {
			return nil, "Invalid API key"
		}
		return &utils.JWTClaims{UserID: "api-key", Role: utils.RoleAdmin}, ""
	}

	tokenStr := BearerToken(c)
	if tokenStr == "" {
		return nil, "Missing or invalid Authorization header"
	}
	claims, err := utils.ParseJWT(a.secret, tokenStr)
	if err != nil {
		return nil, "Invalid or expired token"
	}
	if claims.ID != "" {
		revoked, err := a.blacklist.IsTokenBlacklisted(c.UserContext(), claims.ID)
		if err != nil {
			log.Println("⚠️ blacklist check failed:", err)
		}
		if revoked {
			return nil, "Token has been revoked"
		}
	}
	return claims, ""
}

// Optional attaches the caller when credentials are valid and lets anonymous
// requests through.
func (a *Auth) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, _ := a.authenticate(c); claims != nil {
			c.Locals(claimsKey, claims)
		}
		return c.Next()
	}
}

// RequireAuth rejects requests without valid credentials with 401.
func (a *Auth) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, reason := a.authenticate(c)
		if claims == nil {
			return utils.HandleError(c, fiber.StatusUnauthorized, reason)
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (a *Auth) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil || !claims.IsAdmin() {
			log.Printf("⚠️ non admin user tried to access %s", c.Path())
			return utils.HandleError(c, fiber.StatusForbidden, "Admin access required")
		}
		return c.Next()
	}
}

// RequireDesigner must run after RequireAuth.
func (a *Auth) RequireDesigner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil || !claims.CanDesign() {
			return utils.HandleError(c, fiber.StatusForbidden, "Designer access required")
		}
		return c.Next()
	}
}

// Revoke blacklists the caller's token until it expires.
func (a *Auth) Revoke(c *fiber.Ctx, claims *utils.JWTClaims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return a.blacklist.BlacklistToken(c.UserContext(), claims.ID, time.Until(claims.ExpiresAt.Time))
}

// RevocationEnabled reports whether logout can persist revocations.
func (a *Auth) RevocationEnabled() bool {
	return a.blacklist.Enabled()
}
