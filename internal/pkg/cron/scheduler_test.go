package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunOnce(t *testing.T) {
	t.Parallel()
	s := NewScheduler()

	var calls int
	s.AddJob("counting", time.Hour, func(ctx context.Context) error {
		calls++
		return nil
	})
	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	})

	// A failing job must not stop the others from running.
	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	assert.Equal(t, 2, calls)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()
	s := NewScheduler()

	ran := make(chan struct{})
	var once sync.Once
	s.AddJob("ticking", 5*time.Millisecond, func(ctx context.Context) error {
		once.Do(func() { close(ran) })
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled job never ran")
	}
	s.Stop()
}
