package livefeed_test

import (
	"aduan/frontend/internal/models"
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockFetcher is a mock implementation of livefeed.Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Complaint), args.Error(1)
}

type mockClient struct {
	complaintID string
	viewerID    string

	mu     sync.Mutex
	nudges int
	closed bool
}

func newMockClient(viewerID, complaintID string) *mockClient {
	return &mockClient{viewerID: viewerID, complaintID: complaintID}
}

func (c *mockClient) GetComplaintID() string { return c.complaintID }
func (c *mockClient) GetViewerID() string    { return c.viewerID }
func (c *mockClient) Run()                   {}

func (c *mockClient) Nudge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nudges++
}

func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *mockClient) state() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nudges, c.closed
}
