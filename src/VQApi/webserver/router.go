package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Pulkit7070/Verique-Mumbai/src/VQApi/config"
	"github.com/Pulkit7070/Verique-Mumbai/src/shared/verifier"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, eng verifier.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authH := NewAuth(cfg.APIKeys, []byte(cfg.JWTSecret))
	verH := NewVerifications(cfg, db, rdb, eng)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/token", authH.Token)

		secured := v1.Group("")
		if len(cfg.APIKeys) > 0 {
			secured.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		}
		secured.POST("/verifications", verH.Submit)
		secured.GET("/verifications/:id/progress", verH.Progress)
		secured.GET("/verifications/:id", verH.Result)
	}
}
