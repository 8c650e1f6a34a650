package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	failures int
	calls    int
}

func (f *fakePinger) Ping(context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitForPing_SingleAttempt(t *testing.T) {
	p := &fakePinger{failures: 1}
	err := WaitForPing(context.Background(), p, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: ping")
	assert.Equal(t, 1, p.calls)
}

func TestWaitForPing_RetriesUntilReady(t *testing.T) {
	p := &fakePinger{failures: 2}
	err := WaitForPing(context.Background(), p, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, p.calls)
}

func TestWaitForPing_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakePinger{failures: 100}
	err := WaitForPing(ctx, p, time.Minute)
	require.Error(t, err)
	assert.Less(t, p.calls, 100)
}

func TestConnect_BadConnString(t *testing.T) {
	_, err := Connect(context.Background(), "://not a url", PoolOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: parse config")
}
