// Package analysis computes the statistics pages from complaint listings:
// totals by status, priority, category and room, completion rate, resolution
// time, and the per-technician workload.
package analysis

import (
	"aduan/frontend/internal/models"
	"cmp"
	"slices"
	"time"
)

// Range limits a summary to complaints created after a starting point.
type Range string

const (
	RangeAll   Range = "all"
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

var Ranges = []Range{RangeAll, RangeToday, RangeWeek, RangeMonth, RangeYear}

// ParseRange falls back to RangeAll.
func ParseRange(s string) Range {
	switch r := Range(s); r {
	case RangeToday, RangeWeek, RangeMonth, RangeYear:
		return r
	default:
		return RangeAll
	}
}

func (r Range) LabelKey() string { return "range." + string(r) }

// Start returns the first instant inside r, or false for RangeAll. Today,
// month and year start at local calendar boundaries; week is the last seven
// days.
func (r Range) Start(now time.Time) (time.Time, bool) {
	switch r {
	case RangeToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case RangeWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case RangeYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// InRange keeps the complaints created inside r.
func InRange(cs []models.Complaint, r Range, now time.Time) []models.Complaint {
	start, ok := r.Start(now)
	if !ok {
		return cs
	}
	out := make([]models.Complaint, 0, len(cs))
	for _, c := range cs {
		if !c.CreatedAt.Before(start) {
			out = append(out, c)
		}
	}
	return out
}

// Count is one labelled bucket. An empty Label is the "unknown" bucket.
type Count struct {
	Label string
	Count int
}

type Summary struct {
	Total                 int
	ByStatus              map[models.Status]int
	ByPriority            map[models.Priority]int
	ByCategory            []Count
	ByRoom                []Count
	CompletionRate        float64 // percent
	AverageResolutionDays float64
}

// Summarize aggregates cs. When serverCategories is non-empty it is used for
// the category breakdown instead of counting cs, because the server resolves
// category names that old complaints only carry as ids.
func Summarize(cs []models.Complaint, serverCategories map[string]int) Summary {
	s := Summary{
		Total:      len(cs),
		ByStatus:   make(map[models.Status]int, len(models.Statuses)),
		ByPriority: make(map[models.Priority]int, len(models.Priorities)),
	}
	for _, st := range models.Statuses {
		s.ByStatus[st] = 0
	}
	for _, p := range models.Priorities {
		s.ByPriority[p] = 0
	}

	categories := map[string]int{}
	rooms := map[string]int{}
	var resolved time.Duration
	completed := 0

	for _, c := range cs {
		s.ByStatus[c.Status]++
		s.ByPriority[c.Priority]++
		categories[c.Category.Name]++
		rooms[c.CreatedBy.Room]++

		if c.Status == models.StatusCompleted {
			completed++
			end := c.UpdatedAt
			if end.IsZero() {
				end = c.CreatedAt
			}
			resolved += end.Sub(c.CreatedAt)
		}
	}

	if len(serverCategories) > 0 {
		categories = serverCategories
	}
	s.ByCategory = sortedCounts(categories)
	s.ByRoom = sortedCounts(rooms)

	if s.Total > 0 {
		s.CompletionRate = float64(completed) / float64(s.Total) * 100
	}
	if completed > 0 {
		s.AverageResolutionDays = resolved.Hours() / 24 / float64(completed)
	}
	return s
}

// sortedCounts orders buckets by count, largest first, then by label.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// SortByPriority orders complaints high priority first, newest first within
// a priority. Priority never affects which actions are allowed.
func SortByPriority(cs []models.Complaint) {
	slices.SortStableFunc(cs, func(a, b models.Complaint) int {
		if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
