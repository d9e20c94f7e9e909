package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/Porx312/ProjectD/access"
	"github.com/Porx312/ProjectD/authz"
	"github.com/Porx312/ProjectD/blob"
	"github.com/Porx312/ProjectD/config"
	"github.com/Porx312/ProjectD/db"
	"github.com/Porx312/ProjectD/handlers"
	"github.com/Porx312/ProjectD/ids"
	applog "github.com/Porx312/ProjectD/logger"
	"github.com/Porx312/ProjectD/metrics"
	mw "github.com/Porx312/ProjectD/middleware"
	"github.com/Porx312/ProjectD/store"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	idGen, err := ids.NewGenerator(cfg.SnowflakeNode)
	if err != nil {
		logger.Fatal("id generator", zap.Error(err))
	}
	st := store.New(bdb, store.WithIDs(idGen))

	m := metrics.New()

	eval, err := authz.NewOpaEvaluator(logger)
	if err != nil {
		logger.Fatal("prepare authorization policy failed", zap.Error(err))
	}
	gate := authz.NewGate(eval,
		authz.WithLegacyOpenMutations(cfg.LegacyOpenMutations),
		authz.WithDeniedCounter(m.AuthzDenied),
		authz.WithLogger(logger),
	)

	blobs, err := blob.New(afero.NewOsFs(), cfg.BlobDir, cfg.PublicURL, cfg.JWTKey(), cfg.UploadURLTTL,
		blob.WithLogger(logger))
	if err != nil {
		logger.Fatal("open blob store failed", zap.Error(err))
	}

	h := handlers.New(access.New(st, gate, blobs, logger), blobs, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if sub, ok := c.Get(mw.SubjectKey).(string); ok {
				fields = append(fields, zap.String("subject", sub))
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(m.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		if err := bdb.PingContext(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	// Identity is optional on every API route; operations decide what they need.
	h.Register(e, mw.Identity(cfg.JWTKey()))

	if cfg.Debug || len(cfg.TLSDomains) == 0 {
		logger.Info("starting server", zap.Bool("debug", cfg.Debug), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	logger.Info("starting tls server", zap.Strings("domains", cfg.TLSDomains))
	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
