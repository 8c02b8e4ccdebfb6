package livefeed_test

import (
	"aduan/frontend/internal/livefeed"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RegisterNudgeUnregister(t *testing.T) {
	// Arrange
	hub := livefeed.NewManagerService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	a := newMockClient("u1", "c1")
	b := newMockClient("u2", "c1")
	other := newMockClient("u3", "c2")

	// Act
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	require.True(t, hub.Register(other))
	hub.Nudge("c1")

	// Assert
	require.Eventually(t, func() bool {
		na, _ := a.state()
		nb, _ := b.state()
		return na == 1 && nb == 1
	}, time.Second, 10*time.Millisecond)
	n, _ := other.state()
	assert.Zero(t, n)
	assert.Equal(t, 3, hub.Count())
	assert.Equal(t, 2, hub.Watching("c1"))

	hub.UnregisterCh <- a
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)
	_, closed := a.state()
	assert.True(t, closed)
}

func TestManager_StopClosesClients(t *testing.T) {
	hub := livefeed.NewManagerService()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	a := newMockClient("u1", "c1")
	require.True(t, hub.Register(a))

	cancel()

	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
	_, closed := a.state()
	assert.True(t, closed)
	assert.Zero(t, hub.Count())
	assert.False(t, hub.Register(newMockClient("u2", "c1")), "a stopped manager refuses clients")
}
