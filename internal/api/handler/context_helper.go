package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fahroediin/resource-tracker/internal/access"
	"github.com/fahroediin/resource-tracker/internal/api/middleware"
	"github.com/fahroediin/resource-tracker/pkg/jwt"
	"github.com/fahroediin/resource-tracker/pkg/response"
)

// MustGetActor 从请求上下文中提取操作者。
// 如果 LoadActor 中间件未注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (*access.Actor, bool) {
	actor := access.FromContext(c.Request.Context())
	if actor == nil {
		response.Unauthorized(c, 10002, "Authentication required")
		return nil, false
	}
	return actor, true
}

// MustGetClaims 从 Gin 上下文中提取 JWT Claims。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ClaimsKey)
	if !exists {
		response.Unauthorized(c, 10002, "Authentication required")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "Authentication required")
		return nil, false
	}
	return claims, true
}

// bindJSON 解析 JSON 请求体，失败时写入 400 / 413
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body is too large")
			return false
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "Invalid request", err.Error())
		return false
	}
	return true
}
