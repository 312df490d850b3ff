package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Pulkit7070/Verique-Mumbai/src/VQApi/config"
	"github.com/Pulkit7070/Verique-Mumbai/src/shared/verifier"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, eng verifier.Engine) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, eng)
	return g
}
