package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/devpool/pps/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorContextKey = "actor"

// Auth 解析Bearer令牌并将操作者身份放入请求上下文。
// 令牌由外部身份系统签发,claims 携带 user_id 与 role。
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "未提供认证令牌")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "认证头格式无效")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "令牌无效或已过期")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "令牌内容无效")
			return
		}

		userId, ok := claims["user_id"].(float64)
		if !ok {
			abortUnauthorized(c, "令牌缺少用户标识")
			return
		}
		role, ok := claims["role"].(string)
		if !ok {
			abortUnauthorized(c, "令牌缺少角色")
			return
		}

		c.Set(actorContextKey, model.Actor{
			UserId: int64(userId),
			Role:   model.Role(role),
		})
		c.Next()
	}
}

// RequireRoles 要求操作者具备指定角色之一
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "当前角色无权执行此操作"})
	}
}

// ActorFrom 从请求上下文取出操作者身份
func ActorFrom(c *gin.Context) model.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(model.Actor); ok {
			return actor
		}
	}
	return model.Actor{}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
