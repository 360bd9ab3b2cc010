package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// RedisStore stores values as plain redis strings without expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(config RedisConfig) *RedisStore {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	port := config.Port
	if port == 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: config.Password,
		DB:       config.DB,
		// retries are done by reconnectHook
		MaxRetries: -1,
	})
	client.AddHook(reconnectHook{maxRetries: redisMaxRetries, delay: retryDelay})
	return &RedisStore{client: client}
}

const redisMaxRetries = 10

// retryDelay grows by 50ms per attempt and is capped at 2s.
func retryDelay(attempt int) time.Duration {
	return min(time.Duration(attempt)*50*time.Millisecond, 2*time.Second)
}

// shouldReconnect reports whether a command failed because of the connection
// or a read-only replica rather than because of the command itself.
func shouldReconnect(err error) bool {
	if err == nil ||
		errors.Is(err, redis.Nil) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if strings.HasPrefix(err.Error(), "READONLY") {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// reconnectHook retries commands that failed with a connection error. The
// pool drops broken connections, so each retry runs on a fresh one.
type reconnectHook struct {
	maxRetries int
	delay      func(attempt int) time.Duration
}

func (h reconnectHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h reconnectHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		return h.retry(ctx, func() error { return next(ctx, cmd) })
	}
}

func (h reconnectHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return h.retry(ctx, func() error { return next(ctx, cmds) })
	}
}

func (h reconnectHook) retry(ctx context.Context, run func() error) error {
	err := run()
	for attempt := 1; attempt <= h.maxRetries && shouldReconnect(err); attempt++ {
		timer := time.NewTimer(h.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		err = run()
	}
	return err
}

// Ping checks that the server is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	err := r.client.Set(ctx, key, value, 0).Err()
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
