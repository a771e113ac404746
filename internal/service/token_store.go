package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const accessTokenKeyPrefix = "access_token:"

var ErrTokenRevoked = errors.New("token has been revoked")

// TokenStore keeps an allow-list of issued access tokens so logout can revoke them
type TokenStore interface {
	Store(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	Validate(ctx context.Context, userID, tokenID string) error
	Revoke(ctx context.Context, userID, tokenID string) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func tokenKey(userID, tokenID string) string {
	return fmt.Sprintf("%s%s:%s", accessTokenKeyPrefix, userID, tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(userID, tokenID), "1", ttl).Err()
}

func (s *redisTokenStore) Validate(ctx context.Context, userID, tokenID string) error {
	n, err := s.client.Exists(ctx, tokenKey(userID, tokenID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenRevoked
	}
	return nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, userID, tokenID string) error {
	return s.client.Del(ctx, tokenKey(userID, tokenID)).Err()
}
