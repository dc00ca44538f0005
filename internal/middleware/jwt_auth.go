package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== JWT 配置 ====================

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey      string        // 签名密钥
	AccessTokenTTL time.Duration // Token 有效期
	Issuer         string        // 签发者
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:      "restaurant-dev-secret-change-me",
		AccessTokenTTL: 24 * time.Hour,
		Issuer:         "restaurant-hub",
	}
}

var (
	jwtMu     sync.RWMutex
	jwtConfig = DefaultJWTConfig()
)

// SetJWTConfig 进程启动时设置一次；测试中可替换
func SetJWTConfig(cfg *JWTConfig) {
	jwtMu.Lock()
	defer jwtMu.Unlock()
	jwtConfig = cfg
}

// GetJWTConfig 当前生效的配置
func GetJWTConfig() *JWTConfig {
	jwtMu.RLock()
	defer jwtMu.RUnlock()
	return jwtConfig
}

// ==================== 会话 Token ====================

const tokenSubject = "access"

var errInvalidToken = errors.New("invalid token")

// UserClaims 会话声明，只携带身份，不携带权限
type UserClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateAccessToken 签发会话 Token，返回 token 与过期时间
func GenerateAccessToken(userID int64, username string) (string, time.Time, error) {
	cfg := GetJWTConfig()
	issuedAt := time.Now()
	expiresAt := issuedAt.Add(cfg.AccessTokenTTL)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &UserClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   tokenSubject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken 校验签名、签发者、有效期与用途
func ParseToken(raw string) (*UserClaims, error) {
	cfg := GetJWTConfig()
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithSubject(tokenSubject),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// ==================== 身份解析 ====================

// Identity 当前请求的用户身份
type Identity struct {
	UserID   int64
	Username string
}

// IdentityResolver 会话到身份的解析函数，由用户服务提供
type IdentityResolver func(ctx context.Context, token string) (*Identity, error)

// ==================== Gin 中间件 ====================

const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
)

// JWTAuth 认证中间件：Bearer Token 交给 resolve 换成身份
func JWTAuth(resolve IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "未提供认证信息")
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abortUnauthorized(c, "认证格式错误，应为 Bearer {token}")
			return
		}

		identity, err := resolve(c.Request.Context(), raw)
		if err != nil {
			abortUnauthorized(c, "Token 无效或已过期")
			return
		}

		c.Set(ContextKeyUserID, identity.UserID)
		c.Set(ContextKeyUsername, identity.Username)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": msg})
}

// GetUserID 当前用户 ID，未认证时为 0
func GetUserID(c *gin.Context) int64 {
	return c.GetInt64(ContextKeyUserID)
}

// GetUsername 当前用户名
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}
