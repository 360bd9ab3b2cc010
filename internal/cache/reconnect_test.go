package cache

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRetryDelay(t *testing.T) {
	require.Equal(t, 50*time.Millisecond, retryDelay(1))
	require.Equal(t, 500*time.Millisecond, retryDelay(10))
	require.Equal(t, 2*time.Second, retryDelay(40))
	require.Equal(t, 2*time.Second, retryDelay(1000))
}

func TestShouldReconnect(t *testing.T) {
	cases := []struct {
		err    error
		expect bool
	}{
		{err: nil, expect: false},
		{err: redis.Nil, expect: false},
		{err: errors.New("WRONGTYPE Operation against a key holding the wrong kind of value"), expect: false},
		{err: context.Canceled, expect: false},
		{err: errors.New("READONLY You can't write against a read only replica."), expect: true},
		{err: fmt.Errorf("read: %w", syscall.ECONNRESET), expect: true},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, shouldReconnect(test.err), fmt.Sprint(test.err))
	}
}

func TestReconnectHook(t *testing.T) {
	hook := reconnectHook{maxRetries: 3, delay: func(int) time.Duration { return time.Millisecond }}

	calls := 0
	err := hook.retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return syscall.ECONNRESET
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	calls = 0
	err = hook.retry(context.Background(), func() error {
		calls++
		return errors.New("READONLY replica")
	})
	require.Error(t, err)
	require.Equal(t, 4, calls)

	calls = 0
	err = hook.retry(context.Background(), func() error {
		calls++
		return errors.New("ERR unknown command")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = 0
	slow := reconnectHook{maxRetries: 3, delay: func(int) time.Duration { return time.Hour }}
	err = slow.retry(ctx, func() error {
		calls++
		return syscall.ECONNRESET
	})
	require.ErrorIs(t, err, syscall.ECONNRESET)
	require.Equal(t, 1, calls)
}
