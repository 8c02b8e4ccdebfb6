// Package view renders the HTML pages. Templates are embedded; each page is
// parsed together with the layout and partials once at startup, and cloned
// per request so the translation funcs can be bound to the viewer's language.
package view

import (
	"aduan/frontend/internal/analysis"
	"aduan/frontend/internal/complaint"
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/localization"
	"aduan/frontend/internal/models"
	"aduan/frontend/internal/session"
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates
var templateFS embed.FS

// Renderer holds the parsed pages.
type Renderer struct {
	pages       map[string]*template.Template
	Loc         *localization.Localizer
	DefaultLang string
}

// New parses every page under templates/pages with the shared layout and
// partials.
func New(loc *localization.Localizer, defaultLang string) (*Renderer, error) {
	r := &Renderer{
		pages:       make(map[string]*template.Template),
		Loc:         loc,
		DefaultLang: defaultLang,
	}

	base, err := template.New("layout.html").
		Funcs(staticFuncs()).
		Funcs(requestFuncs(loc, defaultLang, session.Anonymous{})).
		ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		page, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return r, nil
}

// Has reports whether name is a known page.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Lang picks the viewer's language: the lang cookie, then Accept-Language,
// then the configured default.
func (r *Renderer) Lang(c *gin.Context) string {
	if lang, err := c.Cookie(config.LangCookie); err == nil && r.Loc.Has(lang) {
		return lang
	}
	return r.Loc.DetectLanguage(c.GetHeader("Accept-Language"), r.DefaultLang)
}

// T translates key for the viewer of c.
func (r *Renderer) T(c *gin.Context, key string, args ...any) string {
	return translate(r.Loc, r.Lang(c), key, args...)
}

// Render executes page name with data and writes it with status. The layout
// receives the session user, the pending flashes and the language.
func (r *Renderer) Render(c *gin.Context, status int, name string, data gin.H) {
	page, ok := r.pages[name]
	if !ok {
		log.Printf("ERROR: unknown page %q", name)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	tmpl, err := page.Clone()
	if err != nil {
		log.Printf("ERROR: cloning page %q: %v", name, err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	lang := r.Lang(c)
	state := session.FromContext(c)
	tmpl.Funcs(requestFuncs(r.Loc, lang, state))

	if data == nil {
		data = gin.H{}
	}
	data["Lang"] = lang
	data["Path"] = c.Request.URL.Path
	data["Flashes"] = flash.Pop(c)
	data["RequestID"] = c.GetString(config.RequestIDKey)
	if auth, ok := state.(session.Authenticated); ok {
		data["User"] = auth.User
		data["Home"] = session.HomePath(auth.User.Role)
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = ""
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Printf("ERROR: rendering page %q: %v", name, err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func translate(loc *localization.Localizer, lang, key string, args ...any) string {
	s := loc.GetString(lang, key)
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

// requestFuncs are bound per request.
func requestFuncs(loc *localization.Localizer, lang string, state session.State) template.FuncMap {
	return template.FuncMap{
		"t":    func(key string, args ...any) string { return translate(loc, lang, key, args...) },
		"lang": func() string { return lang },
		"hasRole": func(roles ...string) bool {
			rs := make([]models.Role, len(roles))
			for i, r := range roles {
				rs[i] = models.Role(r)
			}
			return session.HasRole(state, rs...)
		},
	}
}

func staticFuncs() template.FuncMap {
	return template.FuncMap{
		"fmtTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Local().Format("02 Jan 2006 15:04")
		},
		"fmtDate": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Local().Format("02 Jan 2006")
		},
		"isoTime":    func(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) },
		"pct":        func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) + "%" },
		"decimal":    func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
		"add":        func(a, b int) int { return a + b },
		"perfBadge":  analysis.PerformanceBadge,
		"monthLabel": models.MonthLabel,
		"categoryName": func(ref models.CategoryRef) string {
			switch {
			case ref.Name != "":
				return ref.Name
			case ref.ID != "":
				return ref.ID
			default:
				return "-"
			}
		},
		"userName": func(v any) string {
			var ref models.UserRef
			switch r := v.(type) {
			case models.UserRef:
				ref = r
			case *models.UserRef:
				if r == nil {
					return "-"
				}
				ref = *r
			default:
				return "-"
			}
			switch {
			case ref.Username != "":
				return ref.Username
			case ref.ID != "":
				return ref.ID
			default:
				return "-"
			}
		},
		"hasAction": func(actions []complaint.Action, a string) bool {
			for _, x := range actions {
				if string(x) == a {
					return true
				}
			}
			return false
		},
		"pageURL": func(base string, q url.Values, page int) string {
			v := url.Values{}
			for k, vals := range q {
				v[k] = vals
			}
			v.Set("page", strconv.Itoa(page))
			return base + "?" + v.Encode()
		},
		// dict builds a map for passing several values to a partial.
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
		"statuses":   func() []models.Status { return models.Statuses },
		"priorities": func() []models.Priority { return models.Priorities },
		"roles":      func() []models.Role { return models.Roles },
		"ranges":     func() []analysis.Range { return analysis.Ranges },
	}
}
