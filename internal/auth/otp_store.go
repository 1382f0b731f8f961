package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evjoints/admin-backend/pkg/redis"
)

// ErrOTPNotFound is returned when no pending code exists for a mobile number.
var ErrOTPNotFound = errors.New("auth: otp not found")

// OTPStore holds pending one-time codes keyed by mobile number. Codes expire
// on their own; Delete removes a code once it has been consumed.
type OTPStore interface {
	Save(ctx context.Context, mobile, code string) error
	Get(ctx context.Context, mobile string) (string, error)
	Delete(ctx context.Context, mobile string) error
}

// RedisOTPStore keeps OTP codes in Redis with the configured TTL.
type RedisOTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOTPStore builds a Redis-backed OTP store.
func NewRedisOTPStore(client *redis.Client, ttl time.Duration) (*RedisOTPStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("otp ttl must be positive")
	}
	return &RedisOTPStore{client: client, ttl: ttl}, nil
}

func (s *RedisOTPStore) Save(ctx context.Context, mobile, code string) error {
	if err := s.client.Set(ctx, s.client.OTPKey(mobile), code, s.ttl); err != nil {
		return fmt.Errorf("storing otp: %w", err)
	}
	return nil
}

func (s *RedisOTPStore) Get(ctx context.Context, mobile string) (string, error) {
	code, err := s.client.Get(ctx, s.client.OTPKey(mobile))
	if errors.Is(err, redis.ErrNotFound) {
		return "", ErrOTPNotFound
	}
	if err != nil {
		return "", fmt.Errorf("loading otp: %w", err)
	}
	return code, nil
}

func (s *RedisOTPStore) Delete(ctx context.Context, mobile string) error {
	if err := s.client.Del(ctx, s.client.OTPKey(mobile)); err != nil {
		return fmt.Errorf("deleting otp: %w", err)
	}
	return nil
}
