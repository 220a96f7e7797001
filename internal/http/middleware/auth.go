package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// AdminRole is the role claim required on admin tokens.
	AdminRole = "admin"

	tokenIssuer = "sheets-storefront"
)

var (
	// ErrMissingToken is returned when the request has no bearer token.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrForbiddenRole is returned for a valid token without the admin role.
	ErrForbiddenRole = errors.New("token lacks admin role")
)

// AdminClaims are the claims carried by admin tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignAdminToken issues an HS256 admin token valid for ttl.
func SignAdminToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := AdminClaims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAdminToken validates an HS256 admin token and returns its claims.
func ParseAdminToken(tokenString string, secret []byte) (*AdminClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)

	tok, err := parser.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected alg: %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := tok.Claims.(*AdminClaims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != AdminRole {
		return nil, ErrForbiddenRole
	}

	return claims, nil
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// AdminAuth guards admin routes with a bearer token signed with the admin
// secret. In the dev environment without a secret the check is skipped.
func (m *Middleware) AdminAuth() gin.HandlerFunc {
	secret := []byte(m.config.Auth.AdminJWTSecret)
	skip := len(secret) == 0 && m.config.IsDev()

	return func(c *gin.Context) {
		if skip {
			c.Next()
			return
		}
		if len(secret) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin access is not configured"})
			return
		}

		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := ParseAdminToken(token, secret)
		if errors.Is(err, ErrForbiddenRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("admin_subject", claims.Subject)
		c.Next()
	}
}
