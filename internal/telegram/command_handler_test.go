package telegram

import (
	"aduan/frontend/internal/models"
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDiagnosticsStore is a mock implementation of the DiagnosticsStore interface
type MockDiagnosticsStore struct {
	mock.Mock
}

func (m *MockDiagnosticsStore) RecentDiagnostics(ctx context.Context, limit int) ([]models.DiagnosticEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DiagnosticEvent), args.Error(1)
}

func (m *MockDiagnosticsStore) PurgeDiagnostics(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// recordingSender keeps every message handed to it.
type recordingSender struct {
	sent []tgbotapi.Chattable
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c)
	return tgbotapi.Message{}, nil
}

func (r *recordingSender) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, r.sent)
	msg, ok := r.sent[len(r.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg.Text
}

func command(text string, length int) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: length},
		},
		From: &tgbotapi.User{ID: 12345},
		Chat: tgbotapi.Chat{ID: 12345},
	}
}

func TestHandleCommand_Recent(t *testing.T) {
	// Arrange
	store := new(MockDiagnosticsStore)
	out := &recordingSender{}
	events := []models.DiagnosticEvent{{
		Operation:  "complaint.verify",
		StatusCode: 502,
		Message:    "Bad <gateway>",
		RequestID:  "req-1",
	}}
	store.On("RecentDiagnostics", mock.Anything, 3).Return(events, nil)

	// Act
	HandleCommand(context.Background(), command("/recent 3", 7), store, out)

	// Assert
	text := out.lastText(t)
	assert.Contains(t, text, "<b>complaint.verify</b> failed (502)")
	assert.Contains(t, text, "Bad &lt;gateway&gt;")
	assert.Contains(t, text, "req-1")
	store.AssertExpectations(t)
}

func TestHandleCommand_RecentCapsLimit(t *testing.T) {
	store := new(MockDiagnosticsStore)
	out := &recordingSender{}
	store.On("RecentDiagnostics", mock.Anything, maxRecent).Return([]models.DiagnosticEvent{}, nil)

	HandleCommand(context.Background(), command("/recent 500", 7), store, out)

	assert.Equal(t, "No failures recorded.", out.lastText(t))
}

func TestHandleCommand_Purge(t *testing.T) {
	store := new(MockDiagnosticsStore)
	out := &recordingSender{}
	store.On("PurgeDiagnostics", mock.Anything, mock.MatchedBy(func(ts time.Time) bool {
		return time.Since(ts) > 6*24*time.Hour && time.Since(ts) < 8*24*time.Hour
	})).Return(int64(4), nil)

	HandleCommand(context.Background(), command("/purge 7", 6), store, out)

	assert.Equal(t, "Removed 4 events older than 7 days.", out.lastText(t))
}

func TestHandleCommand_WithoutDatabase(t *testing.T) {
	out := &recordingSender{}

	HandleCommand(context.Background(), command("/recent", 7), nil, out)

	assert.Equal(t, "Diagnostics database is not configured.", out.lastText(t))
}

func TestHandleCommand_IgnoresOtherText(t *testing.T) {
	out := &recordingSender{}

	HandleCommand(context.Background(), &tgbotapi.Message{Text: "halo", Chat: tgbotapi.Chat{ID: 1}}, nil, out)
	HandleCommand(context.Background(), command("/unknown", 8), nil, out)

	assert.Empty(t, out.sent)
}

func TestClient_NotifyDrainsOnClose(t *testing.T) {
	out := &recordingSender{}
	c := NewClient(out, 99, 4)
	c.Run()

	assert.True(t, c.Notify("one"))
	assert.True(t, c.Notify("two"))
	c.Close()

	require.Len(t, out.sent, 2)
	assert.Equal(t, "two", out.lastText(t))
}

func TestClient_NotifyDropsWhenFull(t *testing.T) {
	c := NewClient(&recordingSender{}, 99, 1)

	assert.True(t, c.Notify("one"))
	assert.False(t, c.Notify("two"), "nothing drains the queue before Run")
}

func TestFormatEvent_Unreachable(t *testing.T) {
	text := FormatEvent(models.DiagnosticEvent{Operation: "auth.profile", Errors: []string{"a & b"}})

	assert.Equal(t, "<b>auth.profile</b> failed (unreachable)\n• a &amp; b", text)
}
