package handler

import (
	"aduan/frontend/internal/analysis"
	"aduan/frontend/internal/complaint"
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/models"
	"aduan/frontend/internal/session"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// ReviewDashboard shows the status counts and the oldest complaints still
// waiting for a decision. The counts come from one small request per status,
// issued concurrently.
func (h *Handler) ReviewDashboard(c *gin.Context) {
	counts := make([]int, len(models.Statuses))
	var waiting models.ComplaintPage

	g, ctx := errgroup.WithContext(c.Request.Context())
	for i, st := range models.Statuses {
		g.Go(func() error {
			page, err := h.API.ListComplaints(ctx, models.ComplaintFilters{Status: st, Limit: 1}.WithDefaults())
			if err != nil {
				return err
			}
			counts[i] = page.Pagination.Total
			return nil
		})
	}
	g.Go(func() error {
		var err error
		waiting, err = h.API.ListComplaints(ctx, models.ComplaintFilters{
			Status:    models.StatusPending,
			Limit:     config.DefaultPageLimit,
			SortBy:    "createdAt",
			SortOrder: "asc",
		}.WithDefaults())
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, "complaint.stats", err, "complaint.list_failed", "/profile")
		return
	}

	byStatus := make(map[models.Status]int, len(counts))
	total := 0
	for i, st := range models.Statuses {
		byStatus[st] = counts[i]
		total += counts[i]
	}
	waitingList := waiting.Complaints
	analysis.SortByPriority(waitingList)

	h.View.Render(c, http.StatusOK, "review_dashboard", gin.H{
		"Title":    h.View.T(c, "page.dashboard"),
		"ByStatus": byStatus,
		"Total":    total,
		"Waiting":  waitingList,
	})
}

// ReviewComplaints lists every complaint with the filters of the query.
func (h *Handler) ReviewComplaints(c *gin.Context) {
	f := listFilters(c)
	page, err := h.API.ListComplaints(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "complaint.list", err, "complaint.list_failed", "/simrs/dashboard")
		return
	}
	h.renderList(c, "page.complaints", f, page, false)
}

type verifyForm struct {
	Notes           string `form:"notes"`
	RejectionReason string `form:"rejectionReason"`
	ProcessNotes    string `form:"processNotes"`
	CompletionNotes string `form:"completionNotes"`
}

func (f verifyForm) input() complaint.Input {
	return complaint.Input{
		Notes:           strings.TrimSpace(f.Notes),
		RejectionReason: strings.TrimSpace(f.RejectionReason),
		ProcessNotes:    strings.TrimSpace(f.ProcessNotes),
		CompletionNotes: strings.TrimSpace(f.CompletionNotes),
	}
}

// TransitionPage renders the form of a lifecycle action, refusing it up
// front when the complaint is not in a state the viewer may act on.
func (h *Handler) TransitionPage(a complaint.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := actor(c)
		id := c.Param("id")

		cp, err := h.Complaints.Authorize(c.Request.Context(), u, id, a)
		if err != nil {
			h.fail(c, "complaint."+string(a), err, "complaint.load_failed", detailPath(u.Role, id))
			return
		}
		h.renderTransition(c, http.StatusOK, a, cp, verifyForm{}, nil)
	}
}

func (h *Handler) renderTransition(c *gin.Context, status int, a complaint.Action, cp models.Complaint, form verifyForm, errs []string) {
	u := actor(c)
	h.View.Render(c, status, "transition", gin.H{
		"Title":     h.View.T(c, a.LabelKey()),
		"Verb":      string(a),
		"Complaint": cp,
		"Form":      form,
		"Errors":    errs,
		"Action":    detailPath(u.Role, cp.ID) + "/" + string(a),
		"Cancel":    detailPath(u.Role, cp.ID),
	})
}

// Transition performs a lifecycle action. Missing notes re-render the form
// without sending anything; refusals and API failures are flashed.
func (h *Handler) Transition(a complaint.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := actor(c)
		id := c.Param("id")

		var form verifyForm
		if err := c.ShouldBind(&form); err != nil {
			h.fail(c, "complaint."+string(a), err, "validation.malformed", detailPath(u.Role, id))
			return
		}
		in := form.input()

		if err := complaint.RequireInput(a, in); err != nil {
			h.report(c, "complaint."+string(a), err)
			h.renderTransition(c, http.StatusUnprocessableEntity, a, models.Complaint{ID: id}, form, []string{h.errorMessage(c, err, "error.note_required")})
			return
		}

		ctx := c.Request.Context()
		var err error
		switch a {
		case complaint.ActionApprove:
			_, err = h.Complaints.Approve(ctx, u, id, in.Notes)
		case complaint.ActionReject:
			_, err = h.Complaints.Reject(ctx, u, id, in.RejectionReason, in.Notes)
		case complaint.ActionClaim:
			_, err = h.Complaints.Claim(ctx, u, id)
		case complaint.ActionBegin:
			_, err = h.Complaints.Begin(ctx, u, id, in.ProcessNotes)
		case complaint.ActionFinish:
			_, err = h.Complaints.Finish(ctx, u, id, in.CompletionNotes)
		default:
			err = complaint.ErrUnknownAction
		}
		if err != nil {
			h.fail(c, "complaint."+string(a), err, "complaint.action_failed", detailPath(u.Role, id))
			return
		}

		h.Live.Nudge(id)
		flash.Success(c, h.View.T(c, "complaint.done."+string(a)))
		c.Redirect(http.StatusFound, detailPath(u.Role, id))
	}
}

// Technicians shows each technician's workload computed from the complaint
// list, with search and sorting from the query string.
func (h *Handler) Technicians(c *gin.Context) {
	var (
		techs []models.User
		page  models.ComplaintPage
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		techs, err = h.API.ListTechnicians(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		page, err = h.API.ListComplaints(ctx, models.ComplaintFilters{Limit: config.StatsPageLimit}.WithDefaults())
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, "technician.list", err, "technician.load_failed", session.HomePath(actor(c).Role))
		return
	}

	search := c.Query("search")
	sortBy := analysis.ParseWorkloadSort(c.Query("sort"))
	desc := c.Query("order") == "desc"

	ws := analysis.FilterWorkload(analysis.TechnicianWorkload(techs, page.Complaints), search)
	analysis.SortWorkload(ws, sortBy, desc)

	h.View.Render(c, http.StatusOK, "technicians", gin.H{
		"Title":     h.View.T(c, "page.technicians"),
		"Workloads": ws,
		"Search":    search,
		"Sort":      string(sortBy),
		"Desc":      desc,
		"Total":     len(techs),
	})
}
