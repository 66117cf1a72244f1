package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to addr (e.g. localhost:6379). An empty addr means Redis
// is not configured and returns (nil, nil).
func InitRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // ถ้าไม่มีรหัสผ่าน
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
