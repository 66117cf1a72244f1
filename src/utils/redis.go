package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist keeps revoked access tokens in Redis until they expire.
// A nil client means Redis is not configured: nothing is stored and no token
// is considered revoked.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Enabled reports whether revocations are persisted.
func (b *TokenBlacklist) Enabled() bool {
	return b != nil && b.client != nil
}

// BlacklistToken เพิ่ม token id เข้า blacklist (ใช้ตอน logout)
func (b *TokenBlacklist) BlacklistToken(ctx context.Context, tokenID string, expiresIn time.Duration) error {
	if !b.Enabled() {
		return nil
	}
	if expiresIn <= 0 {
		return nil
	}

	key := fmt.Sprintf("blacklist:%s", tokenID)
	if err := b.client.Set(ctx, key, "1", expiresIn).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsTokenBlacklisted ตรวจสอบว่า token อยู่ใน blacklist หรือไม่
func (b *TokenBlacklist) IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	if !b.Enabled() {
		return false, nil
	}

	key := fmt.Sprintf("blacklist:%s", tokenID)
	_, err := b.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // Token ไม่อยู่ใน blacklist
		}
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return true, nil
}
