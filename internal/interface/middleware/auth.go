package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
	"github.com/minsuk-ha/go-shop-ddd/pkg/response"
)

func sessionKey(memberID string) string {
	return "member:session:" + memberID
}

// Auth validates the access token and ensures an active session exists in
// Redis. It sets memberID, memberName, and memberRole in the Gin context on
// success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		data, err := rdb.HGetAll(c.Request.Context(), sessionKey(claims.MemberID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			resp := response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		c.Set("memberID", data["member_id"])
		c.Set("memberName", data["username"])
		c.Set("memberRole", data["role"])
		c.Next()
	}
}

// AuthOptional resolves the member from the access token when present but
// never rejects the request. Anonymous requests continue without memberID.
func AuthOptional(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			c.Next()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			c.Next()
			return
		}
		data, err := rdb.HGetAll(c.Request.Context(), sessionKey(claims.MemberID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			c.Next()
			return
		}
		c.Set("memberID", data["member_id"])
		c.Set("memberRole", data["role"])
		c.Next()
	}
}

// RequireAdmin rejects requests whose session role is not ADMIN. Must run
// after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("memberRole") != "ADMIN" {
			resp := response.Error[any](c, http.StatusForbidden, "admin only", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}
