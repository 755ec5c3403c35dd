// Package server exposes the stampify pipeline over HTTP.
// A form or JSON POST converts a URL; the resulting story is kept in a
// bounded in-memory cache and served back as HTML or JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/classify"
	"github.com/gaurav-prasanna/stampify/core/config"
	"github.com/gaurav-prasanna/stampify/core/fetch"
	"github.com/gaurav-prasanna/stampify/core/render"
)

const (
	// DefaultCacheSize is the number of stories kept for GET /stamps/:id.
	DefaultCacheSize = 128
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout = 10 * time.Second
)

// Stampifier converts one URL into a story.
type Stampifier interface {
	Stampify(ctx context.Context, rawURL string) (*core.Story, error)
}

// Factory builds a Stampifier for a page budget. Zero selects the
// configured default.
type Factory func(maxPages int) (Stampifier, error)

// Server serves story conversion requests.
type Server struct {
	echo    *echo.Echo
	factory Factory
	html    core.Renderer
	json    core.Renderer
	stories *lru.Cache[string, *core.Story]
}

// stampRequest is the body of POST /stamps, sent as a form or as JSON.
type stampRequest struct {
	URL      string      `form:"url" json:"url"`
	MaxPages json.Number `form:"max_pages" json:"max_pages"`
}

// New creates a Server. cacheSize <= 0 selects DefaultCacheSize.
func New(factory Factory, cacheSize int) (*Server, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	stories, err := lru.New[string, *core.Story](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating story cache: %w", err)
	}

	s := &Server{
		echo:    echo.New(),
		factory: factory,
		html:    render.NewHTMLRenderer(),
		json:    render.NewJSONRenderer(),
		stories: stories,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())

	s.echo.GET("/", s.home)
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.echo.POST("/stamps", s.create)
	s.echo.GET("/stamps/:id", s.show)
	return s, nil
}

// Handler returns the HTTP handler, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("starting server")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight conversions until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) home(c echo.Context) error {
	return c.HTML(http.StatusOK, homePage)
}

func (s *Server) create(c echo.Context) error {
	var req stampRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	req.URL = strings.TrimSpace(req.URL)
	if _, err := fetch.ValidateURL(req.URL); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	maxPages := 0
	if v := strings.TrimSpace(string(req.MaxPages)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "max_pages must be a positive integer")
		}
		maxPages = n
	}

	stampifier, err := s.factory(maxPages)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return fmt.Errorf("building stampifier: %w", err)
	}

	st, err := stampifier.Stampify(c.Request().Context(), req.URL)
	switch {
	case errors.Is(err, classify.ErrNotStampifiable):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrInvalidURL):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Str("url", req.URL).Msg("conversion failed")
		return echo.NewHTTPError(http.StatusBadGateway, "conversion failed")
	}

	s.stories.Add(st.ID, st)
	c.Response().Header().Set(echo.HeaderLocation, "/stamps/"+st.ID)
	return s.respond(c, http.StatusCreated, st)
}

func (s *Server) show(c echo.Context) error {
	st, ok := s.stories.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "story not found")
	}
	return s.respond(c, http.StatusOK, st)
}

// respond writes st as JSON when ?format=json, HTML otherwise.
func (s *Server) respond(c echo.Context, status int, st *core.Story) error {
	renderer, contentType := s.html, echo.MIMETextHTMLCharsetUTF8
	if c.QueryParam("format") == "json" {
		renderer, contentType = s.json, echo.MIMEApplicationJSON
	}
	data, err := renderer.Render(st)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return c.Blob(status, contentType, data)
}

const homePage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Stampify</title></head>
<body>
<h1>Stampify</h1>
<form method="post" action="/stamps">
  <label>Article URL <input type="url" name="url" required></label>
  <label>Max pages <input type="number" name="max_pages" min="1" value="10"></label>
  <button type="submit">Stampify</button>
</form>
</body>
</html>`
