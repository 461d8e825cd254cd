// Package web serves the portfolio page over HTTP. Pages and fragments are
// rendered server-side; the browser reports section geometry and the server
// decides which nav item is highlighted and whether the modal is open.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const sessionKey = "session"

// Server is the web host.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	site     atomic.Pointer[content.Site]
	sessions *SessionStore
	engine   *gin.Engine
}

// New builds the server and its routes. gin's mode is process-wide and is
// expected to be set by the caller.
func New(cfg *config.Config, site *content.Site, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: NewSessionStore(cfg.Session.TTL, cfg.Session.Max, cfg.Tracker.ReferenceLine),
	}
	s.site.Store(site)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))
	// Images, resume and certificates come from the assets directory
	if cfg.HTTP.Assets != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.HTTP.Assets))))
	}

	// Health checks, no session needed
	r.GET("/health/live", health)
	r.GET("/health/ready", health)

	// Home page and the HTMX fragments it calls
	ui := r.Group("/")
	ui.Use(s.sessionMiddleware())
	ui.GET("/", s.handlePage)
	ui.POST("/viewport", s.handleViewport)
	ui.POST("/navigate/:section", s.handleNavigate)
	ui.GET("/projects/:id", s.handleProject)
	ui.POST("/modal/close", s.handleCloseModal)
	ui.GET("/api/state", s.handleState)

	s.engine = r
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Sessions() *SessionStore { return s.sessions }

// SetSite swaps the content used for new sessions. Existing sessions keep
// the content they started with.
func (s *Server) SetSite(site *content.Site) { s.site.Store(site) }

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// sessionMiddleware attaches the visitor's session, creating one (and its
// cookie) on first contact. The session lock is held until the handler
// returns.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *Session
		if token, err := c.Cookie(s.cfg.Session.Cookie); err == nil {
			sess, _ = s.sessions.Get(token)
		}
		if sess == nil {
			created, err := s.sessions.Create(s.site.Load())
			if err != nil {
				s.logger.Error("create session", slog.String("error", err.Error()))
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			sess = created
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(s.cfg.Session.Cookie, sess.ID, int(s.cfg.Session.TTL/time.Second), "/", "", s.cfg.Session.Secure, true)
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *Session {
	return c.MustGet(sessionKey).(*Session)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(c.Request.Context(), level, "request",
			slog.String("request_id", id),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client", hashIP(c.ClientIP())))
	}
}
