package inkpress

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Serve runs a local preview server over the generated output directory.
// When watch is true, changes under the posts and templates directories
// trigger a rebuild. This never goes in front of real traffic; the output
// directory is meant for a static host.
func (g *Generator) Serve(watch bool) error {
	if _, err := g.Build(); err != nil {
		return err
	}

	if watch {
		stop, err := g.watchAndRebuild()
		if err != nil {
			return err
		}
		defer stop()
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			g.log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(previewCacheControl)

	e.Static("/", g.Config.outputPath())

	g.log.Info("preview server listening", slog.String("addr", g.Config.Addr))
	if err := e.Start(g.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// previewCacheControl keeps the preview honest: pages must never be cached
// while editing, images can be.
func previewCacheControl(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		if strings.HasPrefix(path, "/images/") {
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			c.Response().Header().Set("Cache-Control", "no-store")
		}
		return next(c)
	}
}
