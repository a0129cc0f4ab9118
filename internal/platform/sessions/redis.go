package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ElBibos90/codelearning-sub001/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
	}
}

// ErrTokenNotFound is returned when a refresh token is absent or expired.
var ErrTokenNotFound = errors.New("refresh token not found")

const refreshKeyPrefix = "refresh_token:"

// TokenStore keeps opaque refresh tokens in Redis, keyed by token value with
// the owning user ID as payload. Tokens expire via Redis TTL; revocation is a
// plain delete. This is advisory auth state only, never progress data.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func (s *TokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, refreshKeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("sessions.TokenStore.Save: %w", err)
	}
	return nil
}

func (s *TokenStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("sessions.TokenStore.Get: %w", err)
	}
	return userID, nil
}

func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, refreshKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("sessions.TokenStore.Revoke: %w", err)
	}
	return nil
}
