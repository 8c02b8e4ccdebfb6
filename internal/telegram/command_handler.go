package telegram

import (
	"aduan/frontend/internal/models"
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DiagnosticsStore is what the ops commands read from.
type DiagnosticsStore interface {
	RecentDiagnostics(ctx context.Context, limit int) ([]models.DiagnosticEvent, error)
	PurgeDiagnostics(ctx context.Context, olderThan time.Time) (int64, error)
}

const (
	defaultRecent = 5
	maxRecent     = 20
	defaultPurge  = 30
)

// FormatEvent renders one diagnostic event as an HTML Telegram message.
func FormatEvent(e models.DiagnosticEvent) string {
	var b strings.Builder
	status := "unreachable"
	if e.StatusCode != 0 {
		status = strconv.Itoa(e.StatusCode)
	}
	fmt.Fprintf(&b, "<b>%s</b> failed (%s)\n", html.EscapeString(e.Operation), status)
	if e.Message != "" {
		fmt.Fprintf(&b, "%s\n", html.EscapeString(e.Message))
	}
	for _, detail := range e.Errors {
		fmt.Fprintf(&b, "• %s\n", html.EscapeString(detail))
	}
	if e.Path != "" {
		fmt.Fprintf(&b, "path: <code>%s</code>\n", html.EscapeString(e.Path))
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, "request: <code>%s</code>\n", html.EscapeString(e.RequestID))
	}
	if !e.OccurredAt.IsZero() {
		fmt.Fprintf(&b, "at: %s", e.OccurredAt.Format(time.RFC3339))
	}
	return strings.TrimRight(b.String(), "\n")
}

// HandleCommand answers /recent, /purge and /help from the ops chat. store
// may be nil when no database is configured.
func HandleCommand(ctx context.Context, msg *tgbotapi.Message, store DiagnosticsStore, out Sender) {
	if msg == nil || !msg.IsCommand() {
		return
	}

	var reply string
	switch msg.Command() {
	case "recent":
		reply = recentReply(ctx, store, msg.CommandArguments())
	case "purge":
		reply = purgeReply(ctx, store, msg.CommandArguments())
	case "help", "start":
		reply = "/recent [n] - latest failed API calls\n/purge [days] - delete events older than days (default 30)"
	default:
		return
	}

	response := tgbotapi.NewMessage(msg.Chat.ID, reply)
	response.ParseMode = tgbotapi.ModeHTML
	if _, err := out.Send(response); err != nil {
		log.Printf("ERROR: Failed to answer /%s: %v", msg.Command(), err)
	}
}

func recentReply(ctx context.Context, store DiagnosticsStore, args string) string {
	if store == nil {
		return "Diagnostics database is not configured."
	}
	limit := defaultRecent
	if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n > 0 {
		limit = min(n, maxRecent)
	}
	events, err := store.RecentDiagnostics(ctx, limit)
	if err != nil {
		log.Printf("ERROR: /recent failed: %v", err)
		return "Could not read diagnostics."
	}
	if len(events) == 0 {
		return "No failures recorded."
	}
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, FormatEvent(e))
	}
	return strings.Join(parts, "\n\n")
}

func purgeReply(ctx context.Context, store DiagnosticsStore, args string) string {
	if store == nil {
		return "Diagnostics database is not configured."
	}
	days := defaultPurge
	if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n > 0 {
		days = n
	}
	removed, err := store.PurgeDiagnostics(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		log.Printf("ERROR: /purge failed: %v", err)
		return "Could not purge diagnostics."
	}
	return fmt.Sprintf("Removed %d events older than %d days.", removed, days)
}
