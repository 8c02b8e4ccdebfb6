// Package api assembles the HTTP surface: middleware order, public pages and
// one route group per role.
package api

import (
	"aduan/frontend/internal/api/handler"
	"aduan/frontend/internal/complaint"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/models"
	"aduan/frontend/internal/session"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every page of h. Flash and session middleware run on every
// request so any page can render notifications and the navigation.
func NewRouter(h *handler.Handler, flashes flash.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestID())
	r.Use(flash.Middleware(flashes, h.Secure), session.Middleware(h.Sessions))

	r.GET("/healthz", h.Healthz)
	r.GET("/lang/:lang", h.SetLanguage)
	r.GET("/logout", h.Logout)
	r.POST("/logout", h.Logout)
	r.GET("/clear-auth", h.ClearAuth)
	r.GET("/unauthorized", h.Unauthorized)

	guest := r.Group("/", session.RedirectAuthenticated())
	guest.GET("/login", h.LoginPage)
	guest.POST("/login", h.Login)
	guest.GET("/register", h.RegisterPage)
	guest.POST("/register", h.Register)

	anyRole := r.Group("/", session.Require(h.Loading))
	anyRole.GET("/", h.Home)
	anyRole.GET("/dashboard", h.Home)
	anyRole.GET("/profile", h.ProfilePage)
	anyRole.POST("/profile", h.UpdateProfile)
	anyRole.GET("/live/complaints/:id", h.LiveComplaint)

	room := r.Group("/ruangan", session.Require(h.Loading, models.RoleRoom))
	room.GET("/dashboard", h.RoomDashboard)
	room.GET("/complaints", h.RoomComplaints)
	room.GET("/complaints/new", h.NewComplaintPage)
	room.POST("/complaints", h.CreateComplaint)
	room.GET("/complaints/:id", h.ComplaintDetail)
	room.GET("/complaints/:id/edit", h.EditComplaintPage)
	room.POST("/complaints/:id/edit", h.UpdateComplaint)
	room.GET("/complaints/:id/delete", h.DeleteComplaintPage)
	room.POST("/complaints/:id/delete", h.DeleteComplaint)

	review := r.Group("/simrs", session.Require(h.Loading, models.RoleReviewer))
	review.GET("/dashboard", h.ReviewDashboard)
	review.GET("/complaints", h.ReviewComplaints)
	review.GET("/complaints/:id", h.ComplaintDetail)
	lifecycleRoutes(review, h, complaint.ActionApprove, complaint.ActionReject)
	review.GET("/technicians", h.Technicians)

	tech := r.Group("/teknisi", session.Require(h.Loading, models.RoleTechnician))
	tech.GET("/dashboard", h.TechnicianDashboard)
	tech.GET("/complaints", h.TechnicianTasks)
	tech.GET("/complaints/:id", h.ComplaintDetail)
	lifecycleRoutes(tech, h, complaint.ActionClaim, complaint.ActionBegin, complaint.ActionFinish)

	admin := r.Group("/admin", session.Require(h.Loading, models.RoleAdmin))
	admin.GET("/dashboard", h.AdminDashboard)
	admin.GET("/complaints", h.AdminComplaints)
	admin.GET("/complaints/:id", h.ComplaintDetail)
	admin.GET("/stats", h.AdminStats)
	admin.GET("/technicians", h.Technicians)

	admin.GET("/users", h.AdminUsers)
	admin.GET("/users/new", h.NewUserPage)
	admin.POST("/users", h.CreateUser)
	admin.GET("/users/:id/edit", h.EditUserPage)
	admin.POST("/users/:id/edit", h.UpdateUser)
	admin.GET("/users/:id/delete", h.DeleteUserPage)
	admin.POST("/users/:id/delete", h.DeleteUser)

	admin.GET("/categories", h.Categories)
	admin.GET("/categories/new", h.NewCategoryPage)
	admin.POST("/categories", h.CreateCategory)
	admin.GET("/categories/:id/edit", h.EditCategoryPage)
	admin.POST("/categories/:id/edit", h.UpdateCategory)
	admin.POST("/categories/:id/deactivate", h.DeactivateCategory)
	admin.POST("/categories/:id/restore", h.RestoreCategory)
	admin.GET("/categories/:id/delete", h.DeleteCategoryPage)
	admin.POST("/categories/:id/delete", h.DeleteCategory)

	r.NoRoute(h.NotFound)
	return r
}

// lifecycleRoutes registers the form and the submit route of each action.
func lifecycleRoutes(g *gin.RouterGroup, h *handler.Handler, actions ...complaint.Action) {
	for _, a := range actions {
		g.GET("/complaints/:id/"+string(a), h.TransitionPage(a))
		g.POST("/complaints/:id/"+string(a), h.Transition(a))
	}
}
