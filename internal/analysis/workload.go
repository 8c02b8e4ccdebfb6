package analysis

import (
	"aduan/frontend/internal/models"
	"cmp"
	"slices"
	"strings"
)

// Workload is one technician's share of the complaints.
type Workload struct {
	Technician     models.User
	TotalAssigned  int
	InProgress     int
	Completed      int
	CompletionRate float64 // percent
}

// TechnicianWorkload counts, for each technician, the complaints assigned to
// them in cs.
func TechnicianWorkload(techs []models.User, cs []models.Complaint) []Workload {
	byID := make(map[string]*Workload, len(techs))
	out := make([]Workload, len(techs))
	for i, t := range techs {
		out[i] = Workload{Technician: t}
		byID[t.ID] = &out[i]
	}

	for _, c := range cs {
		if !c.Assigned() {
			continue
		}
		w, ok := byID[c.AssignedTo.ID]
		if !ok {
			continue
		}
		w.TotalAssigned++
		switch c.Status {
		case models.StatusInProgress:
			w.InProgress++
		case models.StatusCompleted:
			w.Completed++
		}
	}

	for i := range out {
		if out[i].TotalAssigned > 0 {
			out[i].CompletionRate = float64(out[i].Completed) / float64(out[i].TotalAssigned) * 100
		}
	}
	return out
}

// WorkloadSort is a column the technicians page sorts on.
type WorkloadSort string

const (
	SortByName           WorkloadSort = "name"
	SortByCompletionRate WorkloadSort = "completionRate"
	SortByTotalAssigned  WorkloadSort = "totalAssigned"
)

func ParseWorkloadSort(s string) WorkloadSort {
	switch w := WorkloadSort(s); w {
	case SortByCompletionRate, SortByTotalAssigned:
		return w
	default:
		return SortByName
	}
}

// FilterWorkload keeps technicians whose username or room contains search,
// case-insensitively.
func FilterWorkload(ws []Workload, search string) []Workload {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return ws
	}
	out := make([]Workload, 0, len(ws))
	for _, w := range ws {
		if strings.Contains(strings.ToLower(w.Technician.Username), search) ||
			strings.Contains(strings.ToLower(w.Technician.Room), search) {
			out = append(out, w)
		}
	}
	return out
}

// SortWorkload sorts ws in place.
func SortWorkload(ws []Workload, by WorkloadSort, desc bool) {
	slices.SortStableFunc(ws, func(a, b Workload) int {
		var c int
		switch by {
		case SortByCompletionRate:
			c = cmp.Compare(a.CompletionRate, b.CompletionRate)
		case SortByTotalAssigned:
			c = cmp.Compare(a.TotalAssigned, b.TotalAssigned)
		default:
			c = cmp.Compare(strings.ToLower(a.Technician.Username), strings.ToLower(b.Technician.Username))
		}
		if desc {
			return -c
		}
		return c
	})
}

// PerformanceBadge grades a completion rate for display.
func PerformanceBadge(rate float64) string {
	switch {
	case rate >= 80:
		return "perf-good"
	case rate >= 60:
		return "perf-fair"
	default:
		return "perf-poor"
	}
}
