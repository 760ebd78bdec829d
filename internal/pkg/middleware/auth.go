package middleware

import (
	"net/http"
	"strings"

	"social_feed/pkg/response"
	"social_feed/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ContextUserID 当前登录用户 ID 在 gin.Context 中的键
const ContextUserID = "userID"

// AuthMiddleware JWT认证中间件，只接受 access 令牌
func AuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Authorization header is required")
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString, utils.TokenTypeAccess)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuth 有合法令牌时设置用户 ID，否则按匿名访问处理
func OptionalAuth(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := tokens.Parse(tokenString, utils.TokenTypeAccess); err == nil {
				c.Set(ContextUserID, claims.UserID)
			}
		}
		c.Next()
	}
}

// UserID 取当前用户 ID，匿名为 0
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

// bearerToken 解析 "Bearer <token>"
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
