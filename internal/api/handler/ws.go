package handler

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/complaint"
	"aduan/frontend/internal/livefeed"
	"aduan/frontend/internal/models"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// liveBaseline reads the state the page was rendered with. An unreadable
// baseline is treated as unknown: the first poll records it without pushing.
func liveBaseline(c *gin.Context) models.ComplaintUpdate {
	b := models.ComplaintUpdate{Kind: models.UpdateChanged, ComplaintID: c.Param("id")}
	st, ok := models.StatusFromCode(c.Query("status"))
	if !ok {
		return models.ComplaintUpdate{}
	}
	at, err := time.Parse(time.RFC3339Nano, c.Query("updatedAt"))
	if err != nil {
		return models.ComplaintUpdate{}
	}
	b.Status = st
	b.UpdatedAt = at
	b.AssignedTo = c.Query("assignedTo")
	return b
}

// visibleFetcher refuses a complaint the viewer may no longer open, which
// the poller turns into a "gone" message.
type visibleFetcher struct {
	api    livefeed.Fetcher
	viewer models.User
}

func (f visibleFetcher) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	cp, err := f.api.GetComplaint(ctx, id)
	if err != nil {
		return cp, err
	}
	if !complaint.CanView(f.viewer, cp) {
		return models.Complaint{}, backend.ErrForbidden
	}
	return cp, nil
}

// LiveComplaint upgrades the request to a websocket that tells the detail
// page when the complaint changed, disappeared or the session expired. The
// viewer must be allowed to open the complaint's detail page.
func (h *Handler) LiveComplaint(c *gin.Context) {
	u := actor(c)
	id := c.Param("id")

	cp, err := h.API.GetComplaint(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "complaint.live", err, "complaint.load_failed", complaintsPath(u.Role))
		return
	}
	if !complaint.CanView(u, cp) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	baseline := liveBaseline(c)
	if baseline.ComplaintID == "" {
		baseline = models.SnapshotOf(cp)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WARNING: live socket upgrade for complaint %s failed: %v", id, err)
		return
	}

	// The request context ends with this handler; the token it carries must
	// stay with the socket.
	ctx := context.WithoutCancel(c.Request.Context())
	client := livefeed.NewWebSocketClient(ctx, h.Live, conn, visibleFetcher{api: h.API, viewer: u}, u.ID, id, baseline, h.LivePoll)
	if !h.Live.Register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}
	client.Run()
}

// Healthz reports liveness and the number of open live sockets.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "live": h.Live.Count()})
}
