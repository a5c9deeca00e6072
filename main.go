package main

import (
	"context"
	"time"

	"github.com/uwezo-ai/uwezo/auth"
	"github.com/uwezo-ai/uwezo/config"
	"github.com/uwezo-ai/uwezo/events"
	"github.com/uwezo-ai/uwezo/kv"
	"github.com/uwezo-ai/uwezo/pipeline"
	"github.com/uwezo-ai/uwezo/routes"
	"github.com/uwezo-ai/uwezo/state"
	"github.com/uwezo-ai/uwezo/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	store := state.NewStore(time.Duration(cfg.NotificationTTLSeconds)*time.Second, utils.Sugar)
	runner := pipeline.NewRunner(cfg.PipelineDelayScale, utils.Sugar)
	hub := events.NewHub(utils.Sugar)

	// Durable storage: redis when reachable, file-backed otherwise.
	var persisted kv.Store
	if utils.RedisAvailable() {
		persisted = kv.NewRedisStore(utils.GetRedis())
		utils.Sugar.Info("using redis-backed durable storage")
	} else {
		fs, err := kv.NewFileStore(cfg.DataDir)
		if err != nil {
			utils.Sugar.Fatalf("file store init failed: %v", err)
		}
		persisted = fs
		utils.Sugar.Infof("redis unreachable, using file-backed durable storage in %s", cfg.DataDir)
	}

	authenticator := auth.New(context.Background(), persisted, utils.Sugar)

	r := routes.SetupRouter(routes.Deps{
		Store:         store,
		Authenticator: authenticator,
		Runner:        runner,
		Hub:           hub,
	})

	stop := make(chan struct{})
	go hub.Run(stop)
	store.StartNotificationJanitor(time.Second, stop)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, func() { close(stop) }); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
