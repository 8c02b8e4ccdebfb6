package handler

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/complaint"
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/diagnostics"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/livefeed"
	"aduan/frontend/internal/models"
	"aduan/frontend/internal/session"
	"aduan/frontend/internal/view"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Handler serves every page. It holds no per-user state; the session comes
// from the request.
type Handler struct {
	API         backend.Backend
	Complaints  *complaint.Service
	Sessions    *session.Manager
	View        *view.Renderer
	Diagnostics *diagnostics.Reporter
	Live        *livefeed.ManagerService
	LivePoll    time.Duration
	Secure      bool
}

func NewHandler(api backend.Backend, sessions *session.Manager, renderer *view.Renderer, reporter *diagnostics.Reporter, live *livefeed.ManagerService, cfg config.Config) *Handler {
	return &Handler{
		API:         api,
		Complaints:  complaint.NewService(api),
		Sessions:    sessions,
		View:        renderer,
		Diagnostics: reporter,
		Live:        live,
		LivePoll:    cfg.Live.PollInterval,
		Secure:      cfg.Session.SecureCookie,
	}
}

// actor returns the logged-in user. Routes behind session.Require always
// have one.
func actor(c *gin.Context) models.User {
	auth, _ := session.Current(c)
	return auth.User
}

// Loading is the neutral page shown while a session is still pending.
func (h *Handler) Loading(c *gin.Context) {
	h.View.Render(c, http.StatusOK, "loading", gin.H{"Title": h.View.T(c, "page.loading")})
}

func (h *Handler) NotFound(c *gin.Context) {
	h.View.Render(c, http.StatusNotFound, "not_found", gin.H{"Title": h.View.T(c, "page.not_found")})
}

// report records a failed operation on the diagnostic channel.
func (h *Handler) report(c *gin.Context, op string, err error) {
	if h.Diagnostics == nil {
		return
	}
	e := diagnostics.FromError(op, err)
	e.RequestID = c.GetString(config.RequestIDKey)
	e.UserID = actor(c).ID
	// Refusals decided locally never reached the API.
	switch {
	case complaint.IsForbidden(err):
		e.StatusCode = http.StatusForbidden
	case errors.Is(err, complaint.ErrNoteRequired), errors.Is(err, complaint.ErrUnknownAction):
		e.StatusCode = http.StatusUnprocessableEntity
	}
	h.Diagnostics.Report(c.Request.Context(), e)
}

// errorMessage picks what the user is told about err.
func (h *Handler) errorMessage(c *gin.Context, err error, fallbackKey string) string {
	switch {
	case errors.Is(err, complaint.ErrWrongStatus):
		return h.View.T(c, "error.wrong_status")
	case errors.Is(err, complaint.ErrWrongActor), errors.Is(err, backend.ErrForbidden):
		return h.View.T(c, "error.forbidden")
	case errors.Is(err, complaint.ErrNotOwner):
		return h.View.T(c, "error.not_owner")
	case errors.Is(err, complaint.ErrAlreadyAssigned):
		return h.View.T(c, "error.already_assigned")
	case errors.Is(err, complaint.ErrNoteRequired):
		return h.View.T(c, "error.note_required")
	}
	if msg := backend.Message(err); msg != "" {
		return msg
	}
	if backend.StatusCode(err) == 0 {
		return h.View.T(c, "error.network")
	}
	return h.View.T(c, fallbackKey)
}

// fail is the one place a failed operation is turned into feedback. A 401
// from the API ends the session wherever it happens; a missing complaint
// renders the not-found page; anything else is flashed and the browser is
// sent to redirect.
func (h *Handler) fail(c *gin.Context, op string, err error, fallbackKey, redirect string) {
	h.report(c, op, err)

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		h.Sessions.Logout(c)
		flash.Error(c, h.View.T(c, "auth.session_expired"))
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, backend.ErrNotFound):
		h.NotFound(c)
	default:
		flash.Error(c, h.errorMessage(c, err, fallbackKey))
		c.Redirect(http.StatusFound, redirect)
	}
	c.Abort()
}

// failInPlace is fail for forms that re-render instead of redirecting. It
// returns false when the session ended and the caller must stop.
func (h *Handler) failInPlace(c *gin.Context, op string, err error, fallbackKey string) (string, bool) {
	if errors.Is(err, backend.ErrUnauthorized) {
		h.fail(c, op, err, fallbackKey, "/login")
		return "", false
	}
	h.report(c, op, err)
	return h.errorMessage(c, err, fallbackKey), true
}

// bindErrors turns binding failures into translated messages, adding the
// API's own field errors when err came from the API.
func (h *Handler) bindErrors(c *gin.Context, err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			field := h.View.T(c, "field."+strings.ToLower(fe.Field()))
			switch fe.Tag() {
			case "required":
				out = append(out, h.View.T(c, "validation.required", field))
			case "min":
				out = append(out, h.View.T(c, "validation.min", field, fe.Param()))
			case "oneof":
				out = append(out, h.View.T(c, "validation.oneof", field))
			default:
				out = append(out, h.View.T(c, "validation.invalid", field))
			}
		}
		return out
	}
	if details := backend.Details(err); len(details) > 0 {
		return details
	}
	return []string{h.View.T(c, "validation.malformed")}
}

var (
	errAttachmentTooLarge = errors.New("attachment too large")
	errAttachmentType     = errors.New("attachment is not an image")
)

// readAttachment returns the optional image upload, sniffing its real
// content type instead of trusting the browser.
func readAttachment(c *gin.Context) (*models.Upload, error) {
	fh, err := c.FormFile("attachment")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > config.MaxAttachmentBytes {
		return nil, errAttachmentTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, config.MaxAttachmentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > config.MaxAttachmentBytes {
		return nil, errAttachmentTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, errAttachmentType
	}
	return &models.Upload{Filename: fh.Filename, ContentType: mt.String(), Data: data}, nil
}

func (h *Handler) attachmentError(c *gin.Context, err error) string {
	switch {
	case errors.Is(err, errAttachmentTooLarge):
		return h.View.T(c, "validation.attachment_size")
	case errors.Is(err, errAttachmentType):
		return h.View.T(c, "validation.attachment_type")
	default:
		return h.View.T(c, "validation.attachment_read")
	}
}

// rolePrefix is the URL prefix of role's pages.
func rolePrefix(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleReviewer:
		return "/simrs"
	case models.RoleTechnician:
		return "/teknisi"
	case models.RoleRoom:
		return "/ruangan"
	default:
		return ""
	}
}

func complaintsPath(role models.Role) string { return rolePrefix(role) + "/complaints" }

func detailPath(role models.Role, id string) string { return complaintsPath(role) + "/" + id }
