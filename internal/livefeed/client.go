// Package livefeed keeps open complaint detail pages current. Each page holds
// a websocket; the server polls the API for that complaint with the viewer's
// token and pushes an update when the complaint changes.
package livefeed

// Client is one open detail page.
type Client interface {
	// GetComplaintID returns the complaint the page shows.
	GetComplaintID() string
	// GetViewerID returns the id of the logged-in user viewing it.
	GetViewerID() string
	// Nudge asks the client to poll now instead of waiting for its ticker.
	Nudge()
	// Run starts the client's pumps and poller.
	Run()
	// Close stops the client and releases its connection.
	Close()
}
