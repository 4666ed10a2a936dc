package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Fixed storage keys for the portfolio collection and active pointer.
const (
	portfolioBlobKey   = "portfolios:%s"
	portfolioActiveKey = "portfolios:%s:active"
)

// RedisPortfolioStore persists the JSON portfolio blob per owner in Redis.
// Writes are last-write-wins; concurrent writers are not merged.
type RedisPortfolioStore struct {
	client *redis.Client
	prefix string
}

func NewRedisPortfolioStore(client *redis.Client, prefix string) *RedisPortfolioStore {
	return &RedisPortfolioStore{client: client, prefix: prefix}
}

func (s *RedisPortfolioStore) GetBlob(ctx context.Context, owner string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key(portfolioBlobKey, owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get blob: %w", err)
	}
	return raw, nil
}

func (s *RedisPortfolioStore) SetBlob(ctx context.Context, owner string, blob []byte) error {
	if err := s.client.Set(ctx, s.key(portfolioBlobKey, owner), blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set blob: %w", err)
	}
	return nil
}

func (s *RedisPortfolioStore) GetActive(ctx context.Context, owner string) (string, error) {
	id, err := s.client.Get(ctx, s.key(portfolioActiveKey, owner)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get active: %w", err)
	}
	return id, nil
}

func (s *RedisPortfolioStore) SetActive(ctx context.Context, owner, id string) error {
	if err := s.client.Set(ctx, s.key(portfolioActiveKey, owner), id, 0).Err(); err != nil {
		return fmt.Errorf("redis set active: %w", err)
	}
	return nil
}

func (s *RedisPortfolioStore) ClearActive(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.key(portfolioActiveKey, owner)).Err(); err != nil {
		return fmt.Errorf("redis clear active: %w", err)
	}
	return nil
}

func (s *RedisPortfolioStore) key(format, owner string) string {
	k := fmt.Sprintf(format, owner)
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}
