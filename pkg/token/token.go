package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims 访问/刷新令牌共用的声明；UserID 即 sub
type Claims struct {
	UserID   string `json:"sub"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Manager 负责签发与校验两类 JWT。access 与 refresh 使用不同密钥，
// 刷新令牌不能伪装成访问令牌使用。
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (m *Manager) SignAccess(userID, username string) (string, error) {
	return m.sign(m.accessSecret, m.accessTTL, userID, username)
}

func (m *Manager) SignRefresh(userID string) (string, error) {
	return m.sign(m.refreshSecret, m.refreshTTL, userID, "")
}

func (m *Manager) sign(secret []byte, ttl time.Duration, userID, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *Manager) VerifyAccess(tokenString string) (*Claims, error) {
	return verify(m.accessSecret, tokenString)
}

func (m *Manager) VerifyRefresh(tokenString string) (*Claims, error) {
	return verify(m.refreshSecret, tokenString)
}

func verify(secret []byte, tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashRefresh 返回刷新令牌的 SHA-256 hex，服务端只存这个
func HashRefresh(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
