package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Pulkit7070/Verique-Mumbai/src/VQApi/config"
	"github.com/Pulkit7070/Verique-Mumbai/src/VQApi/data"
	"github.com/Pulkit7070/Verique-Mumbai/src/VQApi/webserver"
	"github.com/Pulkit7070/Verique-Mumbai/src/shared/engine"
)

func main() {
	cfg := config.Load()

	var db *gorm.DB
	if cfg.MySQLDSN != "" {
		db = data.MustMySQL(cfg.MySQLDSN)
	} else {
		log.Printf("MYSQL_DSN not set, history persistence disabled")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb = data.MustRedis(cfg.RedisURL)
	} else {
		log.Printf("REDIS_URL not set, result cache disabled")
	}

	eng := engine.NewClient(cfg.EngineURL)
	router := webserver.New(cfg, db, rdb, eng)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("Verique API listening on %s (engine: %s, auth: %v)",
		cfg.Port, cfg.EngineURL, len(cfg.APIKeys) > 0)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
