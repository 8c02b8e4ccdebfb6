// Package diagnostics records failed API calls for operators. A Reporter fans
// each event out to its sinks: the log always, plus the database and the ops
// chat when they are configured.
package diagnostics

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/models"
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sink receives diagnostic events. Record must not block for long; it runs
// on the request path.
type Sink interface {
	Record(ctx context.Context, e models.DiagnosticEvent)
}

type Reporter struct {
	sinks []Sink
}

func NewReporter(sinks ...Sink) *Reporter {
	return &Reporter{sinks: sinks}
}

// Report stamps e and hands it to every sink.
func (r *Reporter) Report(ctx context.Context, e models.DiagnosticEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	for _, s := range r.sinks {
		s.Record(ctx, e)
	}
}

// FromError describes a failed call to operation. Status, message and
// details are taken from the API's answer when there was one.
func FromError(operation string, err error) models.DiagnosticEvent {
	e := models.DiagnosticEvent{
		Operation:  operation,
		StatusCode: backend.StatusCode(err),
		Message:    backend.Message(err),
		Errors:     backend.Details(err),
	}
	if e.Message == "" && err != nil {
		e.Message = err.Error()
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		e.Path = apiErr.Method + " " + apiErr.Path
	}
	return e
}

// Serious reports whether e points at the server or the network rather than
// the user's input.
func Serious(e models.DiagnosticEvent) bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// LogSink writes events to the standard logger.
type LogSink struct{}

func (LogSink) Record(_ context.Context, e models.DiagnosticEvent) {
	level := "WARNING"
	if Serious(e) {
		level = "ERROR"
	}
	details := ""
	if len(e.Errors) > 0 {
		details = " [" + strings.Join(e.Errors, "; ") + "]"
	}
	log.Printf("%s: %s failed status=%d request=%s user=%s path=%q: %s%s",
		level, e.Operation, e.StatusCode, e.RequestID, e.UserID, e.Path, e.Message, details)
}

// EventSaver persists events; storage.Service implements it.
type EventSaver interface {
	SaveDiagnostic(ctx context.Context, event *models.DiagnosticEvent) error
}

// GormSink stores events in the diagnostic_events table.
type GormSink struct {
	Store   EventSaver
	Timeout time.Duration
}

func NewGormSink(store EventSaver) *GormSink {
	return &GormSink{Store: store, Timeout: 3 * time.Second}
}

func (s *GormSink) Record(ctx context.Context, e models.DiagnosticEvent) {
	// Stored even when the browser has already gone.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.Timeout)
	defer cancel()
	if err := s.Store.SaveDiagnostic(ctx, &e); err != nil {
		log.Printf("ERROR: diagnostic event %s not stored: %v", e.ID, err)
	}
}

// Notifier queues a text for an ops chat; telegram.Client implements it.
type Notifier interface {
	Notify(text string) bool
}

// TelegramSink alerts the ops chat about server and network failures only.
type TelegramSink struct {
	Notifier Notifier
	Format   func(models.DiagnosticEvent) string
}

func (s *TelegramSink) Record(_ context.Context, e models.DiagnosticEvent) {
	if !Serious(e) {
		return
	}
	s.Notifier.Notify(s.Format(e))
}
