package database

import (
	"log"

	"github.com/hibiken/asynq"
)

// InitAsynq returns an asynq client when Redis is configured, nil otherwise.
func InitAsynq(redisAddr string) *asynq.Client {
	if redisAddr == "" {
		log.Println("⚠️ Redis not available. Asynq client will not be initialized.")
		return nil
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	log.Println("✅ Asynq Client initialized successfully")
	return client
}
