package middleware

import (
	"Ideabox/pkg/context"
	"Ideabox/pkg/jwt"
	"Ideabox/pkg/response"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	// 剩余有效期低于该值时下发新 token
	renewWindow = 5 * time.Minute
)

// Auth 必须登录
func Auth(secret []byte, accessTTL time.Duration) gin.HandlerFunc {
	return auth(secret, accessTTL, true)
}

// OptionalAuth 带 token 时解析身份, 不带也放行
func OptionalAuth(secret []byte, accessTTL time.Duration) gin.HandlerFunc {
	return auth(secret, accessTTL, false)
}

func auth(secret []byte, accessTTL time.Duration, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, TokenAccess, parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		if jwt.ShouldRotateRefreshToken(claims, renewWindow) {
			if newToken, err := jwt.GenerateToken(secret, claims.UserID, TokenAccess, accessTTL); err == nil {
				c.Header("X-New-Access-Token", newToken)
			}
		}
		c.Set(context.CtxUserID, claims.UserID)

		c.Next()
	}
}
