package models

import "time"

// DashboardStats is the administrator aggregate returned by the API.
type DashboardStats struct {
	Overview struct {
		TotalComplaints      int              `json:"totalComplaints"`
		ComplaintsByStatus   map[Status]int   `json:"complaintsByStatus"`
		ComplaintsByPriority map[Priority]int `json:"complaintsByPriority"`
	} `json:"overview"`
	Charts struct {
		MonthlyStats []struct {
			Period struct {
				Year  int `json:"year"`
				Month int `json:"month"`
			} `json:"_id"`
			Count     int `json:"count"`
			Completed int `json:"completed"`
		} `json:"monthlyStats"`
		ComplaintsByCategory []struct {
			Category string `json:"_id"`
			Count    int    `json:"count"`
		} `json:"complaintsByCategory"`
	} `json:"charts"`
	Technicians []struct {
		ID             string  `json:"_id"`
		Username       string  `json:"username"`
		Room           string  `json:"ruangan"`
		TotalAssigned  int     `json:"totalAssigned"`
		Completed      int     `json:"completed"`
		CompletionRate float64 `json:"completionRate"`
	} `json:"technicians"`
	RecentActivities []Complaint `json:"recentActivities"`
	Performance      struct {
		ResponseTime struct {
			Avg float64 `json:"avgResponseTime"`
			Min float64 `json:"minResponseTime"`
			Max float64 `json:"maxResponseTime"`
		} `json:"responseTime"`
	} `json:"performance"`
}

// CategoryCounts flattens the per-category chart into a map.
func (d DashboardStats) CategoryCounts() map[string]int {
	out := make(map[string]int, len(d.Charts.ComplaintsByCategory))
	for _, row := range d.Charts.ComplaintsByCategory {
		out[row.Category] = row.Count
	}
	return out
}

// MonthLabel formats a monthly chart period.
func MonthLabel(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}
