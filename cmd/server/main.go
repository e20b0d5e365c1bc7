package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"hackshare/internal/api"
	"hackshare/internal/auth"
	"hackshare/internal/config"
	"hackshare/internal/db"
	"hackshare/internal/events"
	"hackshare/internal/jobs"
	"hackshare/internal/logger"
	redisdb "hackshare/internal/redis"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	logger.InitLogger(logger.ParseLevel(cfg.Log.Level), cfg.Log.File)
	defer logger.CloseLogger()

	if err := db.Init(cfg); err != nil {
		logger.Errorf("DB init error: %v", err)
		os.Exit(1)
	}

	rdb := redisdb.NewClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisdb.Ping(ctx, rdb); err != nil {
		logger.Warningf("redis unreachable at %s: %v", cfg.Redis.Addr, err)
	}
	cancel()

	hub := events.NewHub()
	go hub.Run()
	defer hub.Stop()

	scheduler, err := jobs.Start(cfg, db.DB)
	if err != nil {
		logger.Errorf("scheduler error: %v", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	svc := api.NewServices(db.DB, auth.NewRedisSessions(rdb), hub)
	r := api.SetupRouter(cfg, svc, rdb)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting server on %s%s", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		logger.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}
