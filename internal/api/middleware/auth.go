package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/response"
)

const identityKey = "identity"

// extractToken 优先取 Authorization: Bearer，其次 accessToken cookie
func extractToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth 无有效 access token 直接 401
func RequireAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := extractToken(c)
		if tok == "" {
			response.Unauthorized(c, "missing authentication")
			c.Abort()
			return
		}
		identity, err := auth.Authenticate(c.Request.Context(), tok)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth 有 token 则解析身份，无 token 按匿名放行
func OptionalAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := extractToken(c); tok != "" {
			if identity, err := auth.Authenticate(c.Request.Context(), tok); err == nil {
				c.Set(identityKey, identity)
			}
		}
		c.Next()
	}
}

// Identity 取出 RequireAuth 写入的身份
func Identity(c *gin.Context) (service.IdentityContext, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return service.IdentityContext{}, false
	}
	identity, ok := v.(service.IdentityContext)
	return identity, ok
}
