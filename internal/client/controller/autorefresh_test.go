package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAutoRefresh(t *testing.T) {
	s := newMemStore(ann)
	c, _ := newController(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	c.StartAutoRefresh(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return len(c.Items()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	time.Sleep(30 * time.Millisecond)
	n := len(s.callLog())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, len(s.callLog()), "no refresh after cancel")
}

func TestStartAutoRefresh_SkipsWhileBusy(t *testing.T) {
	s := newMemStore(ann)
	s.gate = make(chan struct{})
	s.entered = make(chan string, 1)
	c, rec := newController(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Submit(ctx, FormState{Name: "Bob", Email: "bob@example.com", Age: "41"}) }()
	require.Equal(t, "create", <-s.entered)
	signalsBefore := len(rec.types())

	c.StartAutoRefresh(ctx, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, []string{"create"}, s.callLog(), "ticks while busy never reach the store")
	assert.Len(t, rec.types(), signalsBefore, "skipped ticks are silent")

	s.mu.Lock()
	s.entered = nil
	s.mu.Unlock()
	close(s.gate)
	require.NoError(t, <-done)

	assert.Eventually(t, func() bool {
		lists := 0
		for _, op := range s.callLog() {
			if op == "list" {
				lists++
			}
		}
		return lists >= 2
	}, time.Second, 5*time.Millisecond, "ticks resume once idle")
}
