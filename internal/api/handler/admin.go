package handler

import (
	"aduan/frontend/internal/analysis"
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/models"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// AdminDashboard shows the server's aggregates and the category usage side
// by side.
func (h *Handler) AdminDashboard(c *gin.Context) {
	var (
		stats models.DashboardStats
		usage []models.CategoryUsage
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		stats, err = h.API.DashboardStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		usage, err = h.API.CategoryStats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, "admin.stats", err, "stats.load_failed", "/profile")
		return
	}

	h.View.Render(c, http.StatusOK, "admin_dashboard", gin.H{
		"Title": h.View.T(c, "page.dashboard"),
		"Stats": stats,
		"Usage": usage,
	})
}

func (h *Handler) AdminComplaints(c *gin.Context) {
	f := listFilters(c)
	page, err := h.API.ListAllComplaints(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "complaint.list_all", err, "complaint.list_failed", "/admin/dashboard")
		return
	}
	h.renderList(c, "page.complaints", f, page, false)
}

// AdminStats computes the statistics page from the complaint list. For the
// whole range the category breakdown comes from the server, which resolves
// names that old complaints only carry as ids.
func (h *Handler) AdminStats(c *gin.Context) {
	rng := analysis.ParseRange(c.Query("range"))

	var (
		page  models.ComplaintPage
		stats models.DashboardStats
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		page, err = h.API.ListAllComplaints(ctx, models.ComplaintFilters{Limit: config.StatsPageLimit}.WithDefaults())
		return err
	})
	if rng == analysis.RangeAll {
		g.Go(func() error {
			var err error
			if stats, err = h.API.DashboardStats(ctx); err != nil {
				// The local count is still correct, only less precise.
				log.Printf("WARNING: dashboard aggregates unavailable, counting categories locally: %v", err)
				stats = models.DashboardStats{}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.fail(c, "admin.stats", err, "stats.load_failed", "/admin/dashboard")
		return
	}

	inRange := analysis.InRange(page.Complaints, rng, time.Now())
	summary := analysis.Summarize(inRange, stats.CategoryCounts())

	h.View.Render(c, http.StatusOK, "admin_stats", gin.H{
		"Title":   h.View.T(c, "page.stats"),
		"Range":   string(rng),
		"Summary": summary,
		"Sampled": page.Pagination.Total > len(page.Complaints),
	})
}

// AdminUsers lists the accounts with role and search filters.
func (h *Handler) AdminUsers(c *gin.Context) {
	var f models.UserFilters
	if err := c.ShouldBindQuery(&f); err != nil {
		f = models.UserFilters{}
	}
	if _, err := models.ParseRole(string(f.Role)); err != nil {
		f.Role = ""
	}
	if f.Page < 1 {
		f.Page = config.DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = config.DefaultPageLimit
	}

	page, err := h.API.ListUsers(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "user.list", err, "user.list_failed", "/admin/dashboard")
		return
	}
	q := f.Values()
	q.Del("page")
	h.View.Render(c, http.StatusOK, "admin_users", gin.H{
		"Title":      h.View.T(c, "page.users"),
		"Users":      page.Users,
		"Pagination": page.Pagination,
		"Filters":    f,
		"Query":      q,
		"Base":       c.Request.URL.Path,
	})
}

func (h *Handler) userForm(c *gin.Context, status int, title, action string, form any, editing bool, errs []string) {
	h.View.Render(c, status, "user_form", gin.H{
		"Title":   title,
		"Form":    form,
		"Action":  action,
		"Editing": editing,
		"Errors":  errs,
	})
}

func (h *Handler) NewUserPage(c *gin.Context) {
	h.userForm(c, http.StatusOK, h.View.T(c, "page.new_user"), "/admin/users", models.Registration{Role: models.RoleRoom}, false, nil)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var reg models.Registration
	if err := c.ShouldBind(&reg); err != nil {
		h.userForm(c, http.StatusUnprocessableEntity, h.View.T(c, "page.new_user"), "/admin/users", reg, false, h.bindErrors(c, err))
		return
	}
	created, err := h.API.CreateUser(c.Request.Context(), reg)
	if err != nil {
		msg, ok := h.failInPlace(c, "user.create", err, "user.create_failed")
		if !ok {
			return
		}
		reg.Password = ""
		h.userForm(c, http.StatusOK, h.View.T(c, "page.new_user"), "/admin/users", reg, false, append([]string{msg}, h.apiDetails(err)...))
		return
	}
	log.Printf("INFO: user %s (%s) created by %s", created.Username, created.Role, actor(c).Username)
	flash.Success(c, h.View.T(c, "user.created", reg.Username))
	c.Redirect(http.StatusFound, "/admin/users")
}

// findUser looks id up in the listing; the API has no single-user endpoint.
func (h *Handler) findUser(c *gin.Context, id string) (models.User, bool, error) {
	page, err := h.API.ListUsers(c.Request.Context(), models.UserFilters{Page: 1, Limit: config.StatsPageLimit})
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range page.Users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (h *Handler) EditUserPage(c *gin.Context) {
	id := c.Param("id")
	u, ok, err := h.findUser(c, id)
	if err != nil {
		h.fail(c, "user.list", err, "user.list_failed", "/admin/users")
		return
	}
	if !ok {
		h.NotFound(c)
		return
	}
	form := models.UserUpdate{Username: u.Username, Room: u.Room, Role: u.Role}
	h.userForm(c, http.StatusOK, h.View.T(c, "page.edit_user"), "/admin/users/"+id+"/edit", form, true, nil)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	action := "/admin/users/" + id + "/edit"

	var upd models.UserUpdate
	if err := c.ShouldBind(&upd); err != nil {
		h.userForm(c, http.StatusUnprocessableEntity, h.View.T(c, "page.edit_user"), action, upd, true, h.bindErrors(c, err))
		return
	}
	if id == actor(c).ID && upd.Role != "" && upd.Role != actor(c).Role {
		flash.Error(c, h.View.T(c, "user.own_role"))
		c.Redirect(http.StatusFound, action)
		return
	}
	if _, err := h.API.UpdateUser(c.Request.Context(), id, upd); err != nil {
		msg, ok := h.failInPlace(c, "user.update", err, "user.update_failed")
		if !ok {
			return
		}
		h.userForm(c, http.StatusOK, h.View.T(c, "page.edit_user"), action, upd, true, append([]string{msg}, h.apiDetails(err)...))
		return
	}
	flash.Success(c, h.View.T(c, "user.updated"))
	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *Handler) DeleteUserPage(c *gin.Context) {
	id := c.Param("id")
	if id == actor(c).ID {
		flash.Error(c, h.View.T(c, "user.own_delete"))
		c.Redirect(http.StatusFound, "/admin/users")
		return
	}
	u, ok, err := h.findUser(c, id)
	if err != nil {
		h.fail(c, "user.list", err, "user.list_failed", "/admin/users")
		return
	}
	if !ok {
		h.NotFound(c)
		return
	}
	h.View.Render(c, http.StatusOK, "confirm", gin.H{
		"Title":   h.View.T(c, "page.confirm_delete"),
		"Message": h.View.T(c, "user.confirm_delete", u.Username),
		"Action":  "/admin/users/" + id + "/delete",
		"Cancel":  "/admin/users",
		"Danger":  true,
	})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == actor(c).ID {
		flash.Error(c, h.View.T(c, "user.own_delete"))
		c.Redirect(http.StatusFound, "/admin/users")
		return
	}
	if err := h.API.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, "user.delete", err, "user.delete_failed", "/admin/users")
		return
	}
	log.Printf("INFO: user %s deleted by %s", id, actor(c).Username)
	flash.Success(c, h.View.T(c, "user.deleted"))
	c.Redirect(http.StatusFound, "/admin/users")
}
