package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/homeheartcreation/shop-backend/config"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	blacklistPrefix = "blacklist:"
	connectTimeout  = 5 * time.Second
)

// NewClient connects to Redis and verifies the connection.
func NewClient(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: connectTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr,
		})
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return client, nil
}

// TokenStore keeps revoked bearer tokens until they would have expired.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// blacklistKey hashes the token so raw credentials never sit in Redis.
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistPrefix + hex.EncodeToString(sum[:])
}

// Revoke blacklists token for ttl.
func (s *TokenStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": ttl.String(),
	})

	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsRevoked reports whether token was blacklisted.
func (s *TokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	val, err := s.client.Get(ctx, blacklistKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return val == "revoked", nil
}

func (s *TokenStore) Close() error {
	logger.Info("Closing Redis connection")
	return s.client.Close()
}
