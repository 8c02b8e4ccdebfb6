package livefeed

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/models"
	"context"
	"errors"
	"log"
	"time"
)

// Fetcher loads one complaint with the token carried by ctx.
type Fetcher interface {
	GetComplaint(ctx context.Context, id string) (models.Complaint, error)
}

// Poll fetches complaint id once and compares it with last. It returns the
// update to push (if any) and whether watching should stop. A zero last only
// records the baseline.
func Poll(ctx context.Context, f Fetcher, id string, last models.ComplaintUpdate) (next models.ComplaintUpdate, push bool, stop bool) {
	c, err := f.GetComplaint(ctx, id)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return last, false, true
	case errors.Is(err, backend.ErrUnauthorized):
		return models.ComplaintUpdate{Kind: models.UpdateExpired, ComplaintID: id}, true, true
	case errors.Is(err, backend.ErrNotFound), errors.Is(err, backend.ErrForbidden):
		return models.ComplaintUpdate{Kind: models.UpdateGone, ComplaintID: id}, true, true
	default:
		log.Printf("WARNING: live poll of complaint %s failed: %v", id, err)
		return last, false, false
	}

	snap := models.SnapshotOf(c)
	if last.Status == "" {
		return snap, false, false
	}
	return snap, snap.Differs(last), false
}

// Watch polls complaint id immediately, then every interval and on each
// nudge, until ctx ends or the complaint can no longer be watched.
func Watch(ctx context.Context, f Fetcher, id string, interval time.Duration, baseline models.ComplaintUpdate, nudge <-chan struct{}, push func(models.ComplaintUpdate)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := baseline
	check := func() bool {
		next, changed, stop := Poll(ctx, f, id, last)
		last = next
		if changed {
			push(next)
		}
		return !stop
	}

	if !check() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-nudge:
		}
		if !check() {
			return
		}
	}
}
