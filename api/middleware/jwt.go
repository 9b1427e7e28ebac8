package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/qwertyllionman/Alijahon/pkg/utils"
)

// JWTAuthMiddleware JWT认证中间件
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    e.ERROR_AUTH,
				"message": e.GetMsg(e.ERROR_AUTH),
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    e.ERROR_AUTH,
				"message": "Invalid Authorization format",
			})
			c.Abort()
			return
		}

		claims, err := jwtUtil.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"code":    e.ERROR_AUTH_CHECK_TOKEN_TIMEOUT,
					"message": e.GetMsg(e.ERROR_AUTH_CHECK_TOKEN_TIMEOUT),
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"code":    e.ERROR_AUTH_CHECK_TOKEN_FAIL,
					"message": e.GetMsg(e.ERROR_AUTH_CHECK_TOKEN_FAIL),
				})
			}
			c.Abort()
			return
		}

		// 注入用户信息
		c.Set("user_id", claims.UserID)
		c.Set("phone_number", claims.PhoneNumber)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRoles 角色门禁：JWT里的角色不在白名单内直接403
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString("role")
		if _, ok := allowed[role]; !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    e.ERROR_FORBIDDEN,
				"message": e.GetMsg(e.ERROR_FORBIDDEN),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
