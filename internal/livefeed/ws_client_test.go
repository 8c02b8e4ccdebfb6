package livefeed_test

import (
	"aduan/frontend/internal/livefeed"
	"aduan/frontend/internal/models"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWebSocketClient_PushesChange(t *testing.T) {
	// Arrange
	f := new(MockFetcher)
	f.On("GetComplaint", mock.Anything, "c1").Return(complaint(models.StatusAccepted, t0.Add(time.Minute)), nil)

	hub := livefeed.NewManagerService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := livefeed.NewWebSocketClient(context.Background(), hub, conn, f, "u1", "c1",
			models.SnapshotOf(complaint(models.StatusPending, t0)), time.Hour)
		if hub.Register(client) {
			client.Run()
		}
	}))
	defer srv.Close()

	// Act
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.ComplaintUpdate
	require.NoError(t, conn.ReadJSON(&got))

	// Assert
	assert.Equal(t, models.UpdateChanged, got.Kind)
	assert.Equal(t, "c1", got.ComplaintID)
	assert.Equal(t, models.StatusAccepted, got.Status)
	assert.Equal(t, 1, hub.Watching("c1"))

	conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
