// Package auth issues and verifies the HS256 JWTs the HTTP layer uses to
// carry the caller's identity.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/pkg/config"
)

// ErrInvalidToken is returned for tokens that fail to parse or verify.
var ErrInvalidToken = errors.New("invalid or expired token")

// Manager signs and parses tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager from config.
func NewManager(cfg *config.AuthConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("auth secret is required")
	}
	return &Manager{secret: []byte(cfg.Secret), ttl: cfg.TokenTTL}, nil
}

// Identity is the verified token payload.
type Identity struct {
	UserID int64
	Role   models.Role
}

// Issue signs a token for the user. The user id rides in the standard sub
// claim, the role in a private claim.
func (m *Manager) Issue(userID int64, role models.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a token string and extracts the identity.
func (m *Manager) Parse(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC before touching the secret
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}

	role := models.RoleResident
	if r, ok := claims["role"].(string); ok && r != "" {
		role = models.Role(r)
	}

	return &Identity{UserID: userID, Role: role}, nil
}
