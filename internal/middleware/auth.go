package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// authTimingFloor is the minimum response time for rejected tokens.
const authTimingFloor = 50 * time.Millisecond

// Context keys set by AuthMiddleware.
const (
	UserIDKey    = "user_id"
	UserRoleKey  = "user_role"
	UserEmailKey = "user_email"
)

// RoleAdmin is the role allowed to mutate the registry and clear audit logs.
const RoleAdmin = "admin"

var errInvalidToken = errors.New("invalid or expired token")

// Claims are the bearer token claims issued by the dashboard login service.
// The subject is the user ID.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// HMACVerifier verifies HS256/384/512 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	leeway time.Duration
}

// NewHMACVerifier creates a verifier for tokens signed with secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), leeway: 30 * time.Second}
}

// Verify parses token and checks its signature, expiry and subject.
func (v *HMACVerifier) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithLeeway(v.leeway))
	if err != nil || !parsed.Valid {
		return nil, errInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, errInvalidToken
	}

	return claims, nil
}

// truncateToken returns at most the first 8 characters of token followed by "...".
func truncateToken(token string) string {
	if len(token) > 8 {
		return token[:8] + "..."
	}
	return token
}

func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware returns Gin middleware that authenticates requests via a
// Bearer JWT and stores the user ID, role and email in the context.
// If a BruteForceGuard is provided, failed tokens are tracked per client IP.
func AuthMiddleware(verifier TokenVerifier, log *logrus.Logger, guards ...*BruteForceGuard) gin.HandlerFunc {
	var guard *BruteForceGuard
	if len(guards) > 0 {
		guard = guards[0]
	}

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		token := ExtractBearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logAuthFailure(log, c, token)

			if guard != nil {
				guard.RecordFailure(c.ClientIP())
			}

			respondError(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		if guard != nil {
			guard.Reset(c.ClientIP())
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserRoleKey, claims.Role)
		c.Set(UserEmailKey, claims.Email)
		c.Next()
	}
}

// RequireRole rejects requests whose authenticated role is not in roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		for _, r := range roles {
			if strings.EqualFold(r, role) {
				c.Next()
				return
			}
		}

		respondError(c, http.StatusForbidden, "forbidden", "insufficient role for this operation")
	}
}

// ExtractBearerToken extracts the token from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func logAuthFailure(log *logrus.Logger, c *gin.Context, token string) {
	log.WithFields(logrus.Fields{
		"client_ip":    c.ClientIP(),
		"method":       c.Request.Method,
		"path":         c.Request.URL.Path,
		"user_agent":   c.Request.UserAgent(),
		"request_id":   c.GetString(RequestIDKey),
		"token_prefix": truncateToken(token),
	}).Warn("authentication failed: invalid token")
}
