package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ajay-verma30/Neil-admin-sub000/internal/domain"
)

// ErrRefreshTokenNotFound signals a missing or already-rotated credential.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository stores the durable refresh credentials. One
// credential exists per user; rotation deletes the old entry before writing
// the new one.
type RefreshTokenRepository interface {
	Save(ctx context.Context, cred *domain.RefreshCredential) error
	Get(ctx context.Context, token string) (*domain.RefreshCredential, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type redisRefreshTokenRepository struct {
	client *redis.Client
}

// NewRefreshTokenRepository returns a Redis-backed implementation with TTL
// eviction matching credential expiry.
func NewRefreshTokenRepository(client *redis.Client) RefreshTokenRepository {
	return &redisRefreshTokenRepository{client: client}
}

func tokenKey(token string) string {
	return "refresh:token:" + token
}

func userKey(userID string) string {
	return "refresh:user:" + userID
}

func (r *redisRefreshTokenRepository) Save(ctx context.Context, cred *domain.RefreshCredential) error {
	payload, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal refresh credential: %w", err)
	}

	ttl := time.Until(cred.ExpiresAt)
	if ttl <= 0 {
		return errors.New("refresh credential already expired")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKey(cred.Token), payload, ttl)
	pipe.Set(ctx, userKey(cred.UserID), cred.Token, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRefreshTokenRepository) Get(ctx context.Context, token string) (*domain.RefreshCredential, error) {
	payload, err := r.client.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}

	var cred domain.RefreshCredential
	if err := json.Unmarshal(payload, &cred); err != nil {
		return nil, fmt.Errorf("unmarshal refresh credential: %w", err)
	}
	return &cred, nil
}

func (r *redisRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	cred, err := r.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKey(token))
	pipe.Del(ctx, userKey(cred.UserID))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRefreshTokenRepository) DeleteByUser(ctx context.Context, userID string) error {
	token, err := r.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKey(token))
	pipe.Del(ctx, userKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}
