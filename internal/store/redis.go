package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mochaeng/fcoder-gateway/internal/constants"
	"github.com/mochaeng/fcoder-gateway/internal/models"
)

const healthPrefix = "health:"

var ErrNotFound = errors.New("not found")

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return &RedisStore{
		client: redis.NewClient(opt),
	}, nil
}

func healthKey(gateway constants.Gateway) string {
	return healthPrefix + string(gateway)
}

func (r *RedisStore) GetGatewayHealth(ctx context.Context, gateway constants.Gateway) (*models.GatewayHealth, error) {
	data, err := r.client.Get(ctx, healthKey(gateway)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway health: %w", err)
	}

	var health models.GatewayHealth
	if err := json.Unmarshal(data, &health); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gateway health: %w", err)
	}
	return &health, nil
}

// SetGatewayHealth stores health for gateway. A zero ttl keeps it forever.
func (r *RedisStore) SetGatewayHealth(ctx context.Context, gateway constants.Gateway, health models.GatewayHealth, ttl time.Duration) error {
	data, err := json.Marshal(health)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway health: %w", err)
	}

	if err := r.client.Set(ctx, healthKey(gateway), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set gateway health: %w", err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
