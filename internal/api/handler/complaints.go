package handler

import (
	"aduan/frontend/internal/analysis"
	"aduan/frontend/internal/complaint"
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/models"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// listFilters reads the listing filters from the query string. Status is
// accepted either as its code or as the wire value.
func listFilters(c *gin.Context) models.ComplaintFilters {
	var f models.ComplaintFilters
	if err := c.ShouldBindQuery(&f); err != nil {
		log.Printf("WARNING: ignoring malformed list filters %q: %v", c.Request.URL.RawQuery, err)
		f = models.ComplaintFilters{}
	}
	if st, ok := models.StatusFromCode(c.Query("status")); ok {
		f.Status = st
	} else if _, err := models.ParseStatus(string(f.Status)); err != nil {
		f.Status = ""
	}
	if _, err := models.ParsePriority(string(f.Priority)); err != nil {
		f.Priority = ""
	}
	return f.WithDefaults()
}

// ComplaintDetail renders one complaint for any role. Actions offered are
// the ones the lifecycle allows the viewer right now.
func (h *Handler) ComplaintDetail(c *gin.Context) {
	u := actor(c)
	id := c.Param("id")

	cp, err := h.API.GetComplaint(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "complaint.get", err, "complaint.load_failed", complaintsPath(u.Role))
		return
	}
	if !complaint.CanView(u, cp) {
		flash.Error(c, h.View.T(c, "error.no_access"))
		c.Redirect(http.StatusFound, complaintsPath(u.Role))
		return
	}

	h.View.Render(c, http.StatusOK, "complaint_detail", gin.H{
		"Title":     cp.Title,
		"Complaint": cp,
		"Actions":   complaint.Available(u, cp),
		"Base":      detailPath(u.Role, cp.ID),
		"Back":      complaintsPath(u.Role),
		"Snapshot":  models.SnapshotOf(cp),
	})
}

// RoomDashboard summarises the room's own complaints.
func (h *Handler) RoomDashboard(c *gin.Context) {
	u := actor(c)
	page, err := h.API.ListComplaints(c.Request.Context(), models.ComplaintFilters{
		CreatedBy: u.ID,
		Limit:     config.TaskPageLimit,
	}.WithDefaults())
	if err != nil {
		h.fail(c, "complaint.list", err, "complaint.list_failed", "/profile")
		return
	}

	summary := analysis.Summarize(page.Complaints, nil)
	recent := page.Complaints
	if len(recent) > 5 {
		recent = recent[:5]
	}
	h.View.Render(c, http.StatusOK, "room_dashboard", gin.H{
		"Title":   h.View.T(c, "page.dashboard"),
		"Summary": summary,
		"Recent":  recent,
	})
}

// RoomComplaints lists the room's own complaints. The createdBy filter is
// forced to the viewer whatever the query says.
func (h *Handler) RoomComplaints(c *gin.Context) {
	u := actor(c)
	f := listFilters(c)
	f.CreatedBy = u.ID

	page, err := h.API.ListComplaints(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "complaint.list", err, "complaint.list_failed", "/ruangan/dashboard")
		return
	}
	h.renderList(c, "page.my_complaints", f, page, true)
}

func (h *Handler) renderList(c *gin.Context, titleKey string, f models.ComplaintFilters, page models.ComplaintPage, canCreate bool) {
	q := f.Values()
	q.Del("page")
	q.Del("createdBy")
	h.View.Render(c, http.StatusOK, "complaint_list", gin.H{
		"Title":      h.View.T(c, titleKey),
		"Complaints": page.Complaints,
		"Pagination": page.Pagination,
		"Filters":    f,
		"Query":      q,
		"Base":       c.Request.URL.Path,
		"CanCreate":  canCreate,
	})
}

func (h *Handler) complaintFormData(c *gin.Context, title string, form models.ComplaintForm, categories []models.Category, action string, errs []string) gin.H {
	return gin.H{
		"Title":      title,
		"Form":       form,
		"Categories": categories,
		"Action":     action,
		"Errors":     errs,
		"MaxMiB":     config.MaxAttachmentBytes >> 20,
	}
}

func (h *Handler) activeCategories(c *gin.Context) ([]models.Category, error) {
	all, err := h.API.ListCategories(c.Request.Context(), false)
	if err != nil {
		return nil, err
	}
	return models.ActiveCategories(all), nil
}

func (h *Handler) NewComplaintPage(c *gin.Context) {
	cats, err := h.activeCategories(c)
	if err != nil {
		h.fail(c, "category.list", err, "category.load_failed", "/ruangan/complaints")
		return
	}
	form := models.ComplaintForm{Priority: models.PriorityMedium}
	h.View.Render(c, http.StatusOK, "complaint_form", h.complaintFormData(c, h.View.T(c, "page.new_complaint"), form, cats, "/ruangan/complaints", nil))
}

// bindComplaintForm binds and validates the form and its attachment. It
// returns the messages to show when the form must be re-rendered.
func (h *Handler) bindComplaintForm(c *gin.Context) (models.ComplaintForm, []string) {
	var form models.ComplaintForm
	if err := c.ShouldBind(&form); err != nil {
		return form, h.bindErrors(c, err)
	}
	upload, err := readAttachment(c)
	if err != nil {
		return form, []string{h.attachmentError(c, err)}
	}
	form.Attachment = upload
	return form, nil
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	u := actor(c)
	form, errs := h.bindComplaintForm(c)
	if errs != nil {
		cats, _ := h.activeCategories(c)
		h.View.Render(c, http.StatusUnprocessableEntity, "complaint_form", h.complaintFormData(c, h.View.T(c, "page.new_complaint"), form, cats, "/ruangan/complaints", errs))
		return
	}

	created, err := h.Complaints.Create(c.Request.Context(), u, form)
	if err != nil {
		msg, ok := h.failInPlace(c, "complaint.create", err, "complaint.create_failed")
		if !ok {
			return
		}
		cats, _ := h.activeCategories(c)
		h.View.Render(c, http.StatusOK, "complaint_form", h.complaintFormData(c, h.View.T(c, "page.new_complaint"), form, cats, "/ruangan/complaints", append([]string{msg}, h.apiDetails(err)...)))
		return
	}

	flash.Success(c, h.View.T(c, "complaint.created"))
	if created.ID == "" {
		c.Redirect(http.StatusFound, "/ruangan/complaints")
		return
	}
	c.Redirect(http.StatusFound, detailPath(u.Role, created.ID))
}

// EditComplaintPage pre-fills the form. A legacy category name is matched to
// an active category; when none matches the room must pick one again.
func (h *Handler) EditComplaintPage(c *gin.Context) {
	u := actor(c)
	id := c.Param("id")

	cp, err := h.Complaints.Authorize(c.Request.Context(), u, id, complaint.ActionEdit)
	if err != nil {
		h.fail(c, "complaint.edit", err, "complaint.load_failed", detailPath(u.Role, id))
		return
	}
	cats, err := h.activeCategories(c)
	if err != nil {
		h.fail(c, "category.list", err, "category.load_failed", detailPath(u.Role, id))
		return
	}

	form := models.ComplaintForm{Title: cp.Title, Description: cp.Description, Priority: cp.Priority}
	if catID, ok := cp.Category.Resolve(cats); ok {
		form.Category = catID
	}
	h.View.Render(c, http.StatusOK, "complaint_form", h.complaintFormData(c, h.View.T(c, "page.edit_complaint"), form, cats, detailPath(u.Role, id)+"/edit", nil))
}

func (h *Handler) UpdateComplaint(c *gin.Context) {
	u := actor(c)
	id := c.Param("id")
	action := detailPath(u.Role, id) + "/edit"

	form, errs := h.bindComplaintForm(c)
	if errs != nil {
		cats, _ := h.activeCategories(c)
		h.View.Render(c, http.StatusUnprocessableEntity, "complaint_form", h.complaintFormData(c, h.View.T(c, "page.edit_complaint"), form, cats, action, errs))
		return
	}

	if _, err := h.Complaints.Edit(c.Request.Context(), u, id, form); err != nil {
		if complaint.IsForbidden(err) {
			h.fail(c, "complaint.edit", err, "complaint.update_failed", detailPath(u.Role, id))
			return
		}
		msg, ok := h.failInPlace(c, "complaint.edit", err, "complaint.update_failed")
		if !ok {
			return
		}
		cats, _ := h.activeCategories(c)
		h.View.Render(c, http.StatusOK, "complaint_form", h.complaintFormData(c, h.View.T(c, "page.edit_complaint"), form, cats, action, append([]string{msg}, h.apiDetails(err)...)))
		return
	}

	h.Live.Nudge(id)
	flash.Success(c, h.View.T(c, "complaint.updated"))
	c.Redirect(http.StatusFound, detailPath(u.Role, id))
}

// DeleteComplaintPage asks for confirmation before anything is sent.
func (h *Handler) DeleteComplaintPage(c *gin.Context) {
	u := actor(c)
	id := c.Param("id")

	cp, err := h.Complaints.Authorize(c.Request.Context(), u, id, complaint.ActionDelete)
	if err != nil {
		h.fail(c, "complaint.delete", err, "complaint.load_failed", detailPath(u.Role, id))
		return
	}
	h.View.Render(c, http.StatusOK, "confirm", gin.H{
		"Title":   h.View.T(c, "page.confirm_delete"),
		"Message": h.View.T(c, "complaint.confirm_delete", cp.Title),
		"Action":  detailPath(u.Role, id) + "/delete",
		"Cancel":  detailPath(u.Role, id),
		"Danger":  true,
	})
}

func (h *Handler) DeleteComplaint(c *gin.Context) {
	u := actor(c)
	id := c.Param("id")

	if err := h.Complaints.Delete(c.Request.Context(), u, id); err != nil {
		h.fail(c, "complaint.delete", err, "complaint.delete_failed", detailPath(u.Role, id))
		return
	}
	h.Live.Nudge(id)
	flash.Success(c, h.View.T(c, "complaint.deleted"))
	c.Redirect(http.StatusFound, "/ruangan/complaints")
}
