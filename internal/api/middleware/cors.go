package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS 跨域中间件，允许来源由配置指定
func CORS(origin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
		// 通配来源下浏览器不允许携带凭证
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = []string{origin}
	}

	return cors.New(cfg)
}
