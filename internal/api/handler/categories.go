package handler

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/models"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// categoryRow is a category with its usage count.
type categoryRow struct {
	models.Category
	Count int
}

// Categories lists every category, inactive ones included, with how many
// complaints use each.
func (h *Handler) Categories(c *gin.Context) {
	var (
		cats  []models.Category
		usage []models.CategoryUsage
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		cats, err = h.API.ListCategories(ctx, true)
		return err
	})
	g.Go(func() error {
		var err error
		if usage, err = h.API.CategoryStats(ctx); err != nil && !errors.Is(err, backend.ErrUnauthorized) {
			log.Printf("WARNING: category usage unavailable: %v", err)
			usage, err = nil, nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, "category.list", err, "category.load_failed", "/admin/dashboard")
		return
	}

	counts := make(map[string]int, len(usage))
	for _, u := range usage {
		counts[u.ID] = u.Count
	}
	rows := make([]categoryRow, len(cats))
	for i, cat := range cats {
		rows[i] = categoryRow{Category: cat, Count: counts[cat.ID]}
	}

	h.View.Render(c, http.StatusOK, "admin_categories", gin.H{
		"Title":      h.View.T(c, "page.categories"),
		"Categories": rows,
	})
}

func (h *Handler) categoryForm(c *gin.Context, status int, title, action string, form models.CategoryInput, errs []string) {
	h.View.Render(c, status, "category_form", gin.H{
		"Title":  title,
		"Form":   form,
		"Action": action,
		"Errors": errs,
	})
}

func (h *Handler) NewCategoryPage(c *gin.Context) {
	h.categoryForm(c, http.StatusOK, h.View.T(c, "page.new_category"), "/admin/categories", models.CategoryInput{}, nil)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		h.categoryForm(c, http.StatusUnprocessableEntity, h.View.T(c, "page.new_category"), "/admin/categories", in, h.bindErrors(c, err))
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if _, err := h.API.CreateCategory(c.Request.Context(), in); err != nil {
		msg, ok := h.failInPlace(c, "category.create", err, "category.save_failed")
		if !ok {
			return
		}
		h.categoryForm(c, http.StatusOK, h.View.T(c, "page.new_category"), "/admin/categories", in, []string{msg})
		return
	}
	flash.Success(c, h.View.T(c, "category.created", in.Name))
	c.Redirect(http.StatusFound, "/admin/categories")
}

func (h *Handler) findCategory(c *gin.Context, id string) (models.Category, bool, error) {
	cats, err := h.API.ListCategories(c.Request.Context(), true)
	if err != nil {
		return models.Category{}, false, err
	}
	for _, cat := range cats {
		if cat.ID == id {
			return cat, true, nil
		}
	}
	return models.Category{}, false, nil
}

func (h *Handler) EditCategoryPage(c *gin.Context) {
	id := c.Param("id")
	cat, ok, err := h.findCategory(c, id)
	if err != nil {
		h.fail(c, "category.list", err, "category.load_failed", "/admin/categories")
		return
	}
	if !ok {
		h.NotFound(c)
		return
	}
	form := models.CategoryInput{Name: cat.Name, Description: cat.Description}
	h.categoryForm(c, http.StatusOK, h.View.T(c, "page.edit_category"), "/admin/categories/"+id+"/edit", form, nil)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id := c.Param("id")
	action := "/admin/categories/" + id + "/edit"

	var in models.CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		h.categoryForm(c, http.StatusUnprocessableEntity, h.View.T(c, "page.edit_category"), action, in, h.bindErrors(c, err))
		return
	}
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)

	if _, err := h.API.UpdateCategory(c.Request.Context(), id, backend.CategoryUpdate{Name: &name, Description: &desc}); err != nil {
		msg, ok := h.failInPlace(c, "category.update", err, "category.save_failed")
		if !ok {
			return
		}
		h.categoryForm(c, http.StatusOK, h.View.T(c, "page.edit_category"), action, in, []string{msg})
		return
	}
	flash.Success(c, h.View.T(c, "category.updated"))
	c.Redirect(http.StatusFound, "/admin/categories")
}

// DeactivateCategory hides a category from new complaints. Existing
// complaints keep showing it.
func (h *Handler) DeactivateCategory(c *gin.Context) {
	if err := h.API.DeleteCategory(c.Request.Context(), c.Param("id"), false); err != nil {
		h.fail(c, "category.deactivate", err, "category.toggle_failed", "/admin/categories")
		return
	}
	flash.Success(c, h.View.T(c, "category.deactivated"))
	c.Redirect(http.StatusFound, "/admin/categories")
}

func (h *Handler) RestoreCategory(c *gin.Context) {
	if _, err := h.API.RestoreCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "category.restore", err, "category.toggle_failed", "/admin/categories")
		return
	}
	flash.Success(c, h.View.T(c, "category.restored"))
	c.Redirect(http.StatusFound, "/admin/categories")
}

func (h *Handler) DeleteCategoryPage(c *gin.Context) {
	id := c.Param("id")
	cat, ok, err := h.findCategory(c, id)
	if err != nil {
		h.fail(c, "category.list", err, "category.load_failed", "/admin/categories")
		return
	}
	if !ok {
		h.NotFound(c)
		return
	}
	h.confirmCategoryDelete(c, http.StatusOK, id, h.View.T(c, "category.confirm_delete", cat.Name), false)
}

func (h *Handler) confirmCategoryDelete(c *gin.Context, status int, id, message string, second bool) {
	hidden := map[string]string{}
	if second {
		hidden["confirmed"] = "conflict"
	}
	h.View.Render(c, status, "confirm", gin.H{
		"Title":   h.View.T(c, "page.confirm_delete"),
		"Message": message,
		"Action":  "/admin/categories/" + id + "/delete",
		"Cancel":  "/admin/categories",
		"Danger":  true,
		"Hidden":  hidden,
	})
}

// DeleteCategory removes a category for good. When the API refuses with a
// conflict (complaints still use it) the admin sees the API's explanation and
// must confirm a second time before the removal is retried.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	second := c.PostForm("confirmed") == "conflict"

	err := h.API.DeleteCategory(c.Request.Context(), id, true)
	if errors.Is(err, backend.ErrConflict) && !second {
		h.report(c, "category.delete", err)
		msg := backend.Message(err)
		if msg == "" {
			msg = h.View.T(c, "category.in_use")
		}
		h.confirmCategoryDelete(c, http.StatusConflict, id, msg+" "+h.View.T(c, "category.delete_anyway"), true)
		return
	}
	if err != nil {
		h.fail(c, "category.delete", err, "category.delete_failed", "/admin/categories")
		return
	}
	flash.Success(c, h.View.T(c, "category.deleted"))
	c.Redirect(http.StatusFound, "/admin/categories")
}
