// Command worker processes queued maintenance tasks against MongoDB.
package main

import (
	"context"
	"log"

	"forms-backend/src/config"
	"forms-backend/src/jobs"
	"forms-backend/src/store"
	"forms-backend/src/utils"

	"github.com/hibiken/asynq"
)

func main() {
	cfg := config.Load()
	logCloser := utils.SetupLogging(cfg.LogFile)
	defer logCloser.Close()

	if cfg.RedisURI == "" {
		log.Fatal("❌ REDIS_URI is required for the worker")
	}

	ctx := context.Background()
	backend := store.Open(ctx, store.Options{
		URI:            cfg.MongoURI,
		DBName:         cfg.MongoDBName,
		ConnectTimeout: cfg.MongoConnectTimeout,
		Mongo: store.MongoOptions{
			QueryTimeout:    cfg.MongoQueryTimeout,
			UseTransactions: cfg.MongoUseTransactions,
		},
	})
	defer backend.Close(ctx)
	if backend.Mode != store.ModeDurable {
		log.Fatal("❌ MongoDB unavailable; maintenance tasks only run against the durable store")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisURI},
		asynq.Config{
			Concurrency: 2,
			Queues:      map[string]int{"default": 1},
		},
	)

	mux := asynq.NewServeMux()
	jobs.NewHandlers(backend).Register(mux)

	log.Println("🚀 Maintenance worker started")
	if err := srv.Run(mux); err != nil {
		log.Fatalf("❌ could not run worker: %v", err)
	}
}
