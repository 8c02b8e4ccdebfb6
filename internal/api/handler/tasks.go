package handler

import (
	"aduan/frontend/internal/analysis"
	"aduan/frontend/internal/complaint"
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// tasks loads the complaints a technician's tabs are cut from.
func (h *Handler) tasks(c *gin.Context) ([]models.Complaint, error) {
	page, err := h.API.ListComplaints(c.Request.Context(), models.ComplaintFilters{Limit: config.TaskPageLimit}.WithDefaults())
	if err != nil {
		return nil, err
	}
	return page.Complaints, nil
}

func (h *Handler) TechnicianDashboard(c *gin.Context) {
	u := actor(c)
	all, err := h.tasks(c)
	if err != nil {
		h.fail(c, "complaint.list", err, "complaint.list_failed", "/profile")
		return
	}

	active := append(complaint.FilterTasks(all, complaint.TaskProcessing, u.ID), complaint.FilterTasks(all, complaint.TaskAssigned, u.ID)...)
	analysis.SortByPriority(active)
	available := complaint.FilterTasks(all, complaint.TaskAvailable, u.ID)
	analysis.SortByPriority(available)

	h.View.Render(c, http.StatusOK, "technician_dashboard", gin.H{
		"Title":     h.View.T(c, "page.dashboard"),
		"Counts":    complaint.CountTasks(all, u.ID),
		"Active":    active,
		"Available": available,
	})
}

// TechnicianTasks shows one tab of the task list: claimable, claimed, in
// progress or completed.
func (h *Handler) TechnicianTasks(c *gin.Context) {
	u := actor(c)
	all, err := h.tasks(c)
	if err != nil {
		h.fail(c, "complaint.list", err, "complaint.list_failed", "/teknisi/dashboard")
		return
	}

	tab := complaint.ParseTaskFilter(c.Query("filter"))
	list := complaint.FilterTasks(all, tab, u.ID)
	analysis.SortByPriority(list)

	h.View.Render(c, http.StatusOK, "technician_tasks", gin.H{
		"Title":  h.View.T(c, "page.tasks"),
		"Tab":    string(tab),
		"Tabs":   complaint.TaskFilters,
		"Counts": complaint.CountTasks(all, u.ID),
		"Tasks":  list,
	})
}
