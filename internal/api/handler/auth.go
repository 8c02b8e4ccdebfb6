package handler

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/models"
	"aduan/frontend/internal/session"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) LoginPage(c *gin.Context) {
	h.View.Render(c, http.StatusOK, "login", gin.H{
		"Title": h.View.T(c, "page.login"),
		"Form":  models.Credentials{},
	})
}

// Login exchanges the credentials for a session. A refused login re-renders
// the form with the API's message.
func (h *Handler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		h.View.Render(c, http.StatusUnprocessableEntity, "login", gin.H{
			"Title":  h.View.T(c, "page.login"),
			"Form":   creds,
			"Errors": h.bindErrors(c, err),
		})
		return
	}

	auth, err := h.Sessions.Login(c, creds)
	if err != nil {
		h.report(c, "auth.login", err)
		creds.Password = ""
		h.View.Render(c, http.StatusOK, "login", gin.H{
			"Title":  h.View.T(c, "page.login"),
			"Form":   creds,
			"Errors": []string{h.authMessage(c, err, "auth.login_failed")},
		})
		return
	}

	flash.Success(c, h.View.T(c, "auth.welcome", auth.User.Username))
	c.Redirect(http.StatusFound, session.HomePath(auth.User.Role))
}

func (h *Handler) RegisterPage(c *gin.Context) {
	h.View.Render(c, http.StatusOK, "register", gin.H{
		"Title": h.View.T(c, "page.register"),
		"Form":  models.SelfRegistration{},
	})
}

func (h *Handler) Register(c *gin.Context) {
	var reg models.SelfRegistration
	if err := c.ShouldBind(&reg); err != nil {
		h.View.Render(c, http.StatusUnprocessableEntity, "register", gin.H{
			"Title":  h.View.T(c, "page.register"),
			"Form":   reg,
			"Errors": h.bindErrors(c, err),
		})
		return
	}

	auth, err := h.Sessions.Register(c, reg.Registration())
	if err != nil {
		h.report(c, "auth.register", err)
		reg.Password = ""
		errs := []string{h.authMessage(c, err, "auth.register_failed")}
		h.View.Render(c, http.StatusOK, "register", gin.H{
			"Title":  h.View.T(c, "page.register"),
			"Form":   reg,
			"Errors": append(errs, h.apiDetails(err)...),
		})
		return
	}

	flash.Success(c, h.View.T(c, "auth.registered", auth.User.Username))
	c.Redirect(http.StatusFound, session.HomePath(auth.User.Role))
}

func (h *Handler) authMessage(c *gin.Context, err error, fallbackKey string) string {
	if errors.Is(err, session.ErrMalformedAuth) {
		return h.View.T(c, "auth.malformed")
	}
	return h.errorMessage(c, err, fallbackKey)
}

func (h *Handler) apiDetails(err error) []string {
	var out []string
	for _, d := range backend.Details(err) {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Logout drops the session without calling the API.
func (h *Handler) Logout(c *gin.Context) {
	if auth, ok := session.Current(c); ok {
		log.Printf("INFO: %s logged out", auth.User.Username)
	}
	h.Sessions.Logout(c)
	flash.Info(c, h.View.T(c, "auth.logged_out"))
	c.Redirect(http.StatusFound, "/login")
}

// ClearAuth wipes the session cookies unconditionally. It is the way out of
// a browser stuck with a cookie the server cannot read.
func (h *Handler) ClearAuth(c *gin.Context) {
	h.Sessions.Logout(c)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) Unauthorized(c *gin.Context) {
	h.View.Render(c, http.StatusForbidden, "unauthorized", gin.H{"Title": h.View.T(c, "page.unauthorized")})
}

// Home sends the user to their role's landing page.
func (h *Handler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, session.HomePath(actor(c).Role))
}

// SetLanguage switches the UI language and returns to the previous page.
func (h *Handler) SetLanguage(c *gin.Context) {
	lang := c.Param("lang")
	if h.View.Loc.Has(lang) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(config.LangCookie, lang, int(config.SessionLifetime.Seconds())*52, "/", "", h.Secure, true)
	}
	back := "/"
	if ref, err := url.Parse(c.Request.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == c.Request.Host) {
		back = ref.RequestURI()
	}
	c.Redirect(http.StatusFound, back)
}

type profileForm struct {
	Name string `form:"name" binding:"required,min=3"`
}

func (h *Handler) ProfilePage(c *gin.Context) {
	u := actor(c)
	h.View.Render(c, http.StatusOK, "profile", gin.H{
		"Title": h.View.T(c, "page.profile"),
		"Form":  profileForm{Name: u.Username},
	})
}

// UpdateProfile changes the display name. Role and room are not
// self-service.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		h.View.Render(c, http.StatusUnprocessableEntity, "profile", gin.H{
			"Title":  h.View.T(c, "page.profile"),
			"Form":   form,
			"Errors": h.bindErrors(c, err),
		})
		return
	}

	user, err := h.API.UpdateProfile(c.Request.Context(), strings.TrimSpace(form.Name))
	if err != nil {
		h.fail(c, "auth.update_profile", err, "profile.update_failed", "/profile")
		return
	}
	if user.ID == "" {
		// Some API versions answer without the user; fetch it.
		if user, err = h.API.Profile(c.Request.Context()); err != nil {
			h.fail(c, "auth.profile", err, "profile.update_failed", "/profile")
			return
		}
	}

	auth, _ := session.Current(c)
	if err := h.Sessions.Cookies.Save(c, user, auth.Token); err != nil {
		log.Printf("ERROR: failed to refresh session cookie: %v", err)
	}
	flash.Success(c, h.View.T(c, "profile.updated"))
	c.Redirect(http.StatusFound, "/profile")
}
