package livefeed

import (
	"aduan/frontend/internal/models"
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient implements Client over a gorilla websocket.
type WebSocketClient struct {
	ViewerID    string
	ComplaintID string
	Baseline    models.ComplaintUpdate
	Interval    time.Duration

	Conn    *websocket.Conn
	Hub     *ManagerService
	Fetcher Fetcher
	Send    chan models.ComplaintUpdate

	nudge  chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWebSocketClient prepares a client. ctx supplies the viewer's token and
// must outlive the HTTP handler that upgraded conn.
func NewWebSocketClient(ctx context.Context, hub *ManagerService, conn *websocket.Conn, f Fetcher, viewerID, complaintID string, baseline models.ComplaintUpdate, interval time.Duration) *WebSocketClient {
	ctx, cancel := context.WithCancel(ctx)
	return &WebSocketClient{
		ViewerID:    viewerID,
		ComplaintID: complaintID,
		Baseline:    baseline,
		Interval:    interval,
		Conn:        conn,
		Hub:         hub,
		Fetcher:     f,
		Send:        make(chan models.ComplaintUpdate, 8),
		nudge:       make(chan struct{}, 1),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (c *WebSocketClient) GetComplaintID() string { return c.ComplaintID }
func (c *WebSocketClient) GetViewerID() string    { return c.ViewerID }

func (c *WebSocketClient) Nudge() {
	select {
	case c.nudge <- struct{}{}:
	default:
	}
}

// Run starts the pumps and the poller.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
	go Watch(c.ctx, c.Fetcher, c.ComplaintID, c.Interval, c.Baseline, c.nudge, c.push)
}

// Close stops the poller and the write pump; the read pump ends when the
// connection closes.
func (c *WebSocketClient) Close() {
	c.cancel()
}

func (c *WebSocketClient) push(u models.ComplaintUpdate) {
	select {
	case c.Send <- u:
	case <-c.ctx.Done():
	default:
		log.Printf("WARNING: live update for viewer %s dropped: send buffer full", c.ViewerID)
	}
}

// readPump only watches for the browser going away; pages never send
// anything meaningful.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.cancel()
		if c.Hub != nil {
			select {
			case c.Hub.UnregisterCh <- c:
			case <-c.Hub.Done():
			}
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WARNING: live socket of viewer %s: %v", c.ViewerID, err)
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case u := <-c.Send:
			data, err := json.Marshal(u)
			if err != nil {
				log.Printf("ERROR: encoding live update for viewer %s: %v", c.ViewerID, err)
				continue
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			if u.Kind != models.UpdateChanged {
				c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(u.Kind)))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
