// Package site renders the portfolio pages and drives the contact form.
package site

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dvasava/portfolio/internal/contact"
	"github.com/dvasava/portfolio/internal/content"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const sessionCookie = "portfolio_session"

// Handler serves the portfolio pages.
type Handler struct {
	portfolio *content.Portfolio
	sessions  *Sessions
	log       *slog.Logger
	now       func() time.Time
}

// New returns a site Handler.
func New(p *content.Portfolio, sessions *Sessions, log *slog.Logger) *Handler {
	return &Handler{portfolio: p, sessions: sessions, log: log, now: time.Now}
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"navClass": NavClass,
	}).ParseFS(templatesFS, "templates/*.html")
}

// Register installs templates, static assets and page routes on r.
func (h *Handler) Register(r *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/", h.Index)
	r.GET("/projects", h.Projects)
	r.GET("/projects/:slug", h.ProjectModal)
	r.GET("/privacy", h.Privacy)
	r.POST("/contact/field", h.UpdateField)
	r.POST("/contact", h.Submit)
	return nil
}

func (h *Handler) page(name string, extra gin.H) gin.H {
	data := gin.H{
		"Page":  name,
		"Nav":   navItems,
		"P":     h.portfolio,
		"Year":  h.now().Year(),
		"Title": h.portfolio.Profile.Name,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func (h *Handler) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", c.Request.TLS != nil, true)
}

// flow returns the session's flow, starting one when the cookie is missing
// or the session has expired.
func (h *Handler) flow(c *gin.Context) *contact.Flow {
	id, _ := c.Cookie(sessionCookie)
	if f, ok := h.sessions.Get(id); ok {
		return f
	}
	id, f := h.sessions.Start("")
	h.setSessionCookie(c, id)
	return f
}

// Index renders the portfolio page. Every load gets a fresh contact flow.
// Only session ids issued by this server are kept.
func (h *Handler) Index(c *gin.Context) {
	id, _ := c.Cookie(sessionCookie)
	if _, ok := h.sessions.Get(id); !ok {
		id = ""
	}
	id, f := h.sessions.Start(id)
	h.setSessionCookie(c, id)

	c.HTML(http.StatusOK, "index.html", h.page(PagePortfolio, gin.H{
		"Form": formFor(f),
	}))
}

// Projects renders the project list, optionally filtered by ?tech=.
func (h *Handler) Projects(c *gin.Context) {
	tech := c.Query("tech")
	c.HTML(http.StatusOK, "projects.html", h.page(PageProjects, gin.H{
		"Projects": h.portfolio.ProjectsUsing(tech),
		"Tech":     h.portfolio.Tech(),
		"Selected": tech,
	}))
}

// ProjectModal renders the detail dialog fragment for one project.
func (h *Handler) ProjectModal(c *gin.Context) {
	p, ok := h.portfolio.Project(c.Param("slug"))
	if !ok {
		c.HTML(http.StatusNotFound, "project-missing.html", gin.H{"Slug": c.Param("slug")})
		return
	}
	c.HTML(http.StatusOK, "project-modal.html", p)
}

func (h *Handler) Privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", h.page(PagePrivacy, nil))
}

// UpdateField applies one keystroke-level edit and re-renders the status
// line, which clears once the user edits after an outcome.
func (h *Handler) UpdateField(c *gin.Context) {
	field, err := contact.ParseField(c.PostForm("field"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	f := h.flow(c)
	f.UpdateField(field, c.PostForm(string(field)))
	c.HTML(http.StatusOK, "contact-status.html", formFor(f))
}

// Submit runs one submission attempt for the session and re-renders the
// form with its outcome.
func (h *Handler) Submit(c *gin.Context) {
	f := h.flow(c)
	for _, field := range contact.Fields {
		if v, ok := c.GetPostForm(string(field)); ok {
			f.UpdateField(field, v)
		}
	}

	if err := contact.Validate(f.View().Draft); err != nil {
		// Browsers block this case through required/type=email. The form
		// is re-rendered with 200 so htmx swaps it in.
		h.log.Debug("contact draft rejected before submit", "error", err)
		c.HTML(http.StatusOK, "contact-form.html", formFor(f))
		return
	}

	// The attempt is not tied to the browser connection: there is no way
	// for the user to cancel it.
	if err := f.Submit(context.WithoutCancel(c.Request.Context())); errors.Is(err, contact.ErrSubmissionInProgress) {
		h.log.Debug("contact submit ignored while another attempt is running")
	}
	c.HTML(http.StatusOK, "contact-form.html", formFor(f))
}
