// Package webserver wires echo with sessions, rendering, logging and the API group.
package webserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/config"
)

const (
	ApiPrefix    = "/api/v1"
	CSRFFormName = "_csrf"
	csrfCtxKey   = "csrf"
)

type Server struct {
	cfg  *config.AppConfig
	root *echo.Echo
	api  *echo.Group
}

// NewServer builds the echo instance and its middleware chain. The renderer
// may be nil for API only servers.
func NewServer(cfg *config.AppConfig, renderer echo.Renderer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.System.Debug
	e.JSONSerializer = JSONSerializer{}
	e.Validator = NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = NewErrorHandler(renderer != nil)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(AccessLogger())
	e.Use(session.Middleware(newCookieStore(cfg.Web)))
	e.Use(SessionName(cfg.Web.SessionName))
	if cfg.Web.CSRF {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper:        isAPIRequest,
			TokenLookup:    "form:" + CSRFFormName,
			ContextKey:     csrfCtxKey,
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   cfg.Web.SecureCookie,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	s := &Server{cfg: cfg, root: e}
	s.api = e.Group(ApiPrefix)
	return s
}

func newCookieStore(cfg config.WebConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, ApiPrefix)
}

// Echo exposes the underlying router
func (s *Server) Echo() *echo.Echo {
	return s.root
}

func (s *Server) Config() *config.AppConfig {
	return s.cfg
}

func (s *Server) GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.root.GET(path, h, m...)
}

func (s *Server) POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.root.POST(path, h, m...)
}

func (s *Server) ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.api.GET(path, h, m...)
}

func (s *Server) ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.api.POST(path, h, m...)
}

// ServeHTTP makes the server usable with httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.root.ServeHTTP(w, r)
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Address()
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("crmdesk web server listening on %s", addr)
		if err := s.root.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	zap.S().Info("shutting down web server")
	return s.root.Shutdown(shutdownCtx)
}
