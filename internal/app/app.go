// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/wom/internal/archive"
	"github.com/law-makers/wom/internal/config"
	"github.com/law-makers/wom/internal/fetch"
	"github.com/law-makers/wom/internal/report"
	"github.com/law-makers/wom/internal/retry"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command invocation and shared by the CLI commands.
// Use Close() to release pooled connections.
type Application struct {
	Config     *config.Config
	Logger     *zerolog.Logger
	HTTPClient *http.Client
	Fetcher    *fetch.Fetcher
	Indexer    *archive.Indexer
	startTime  time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Initializes the HTTP client, routed through the proxy if one is set
//   - Creates the page fetcher and the snapshot indexer
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := setupLogger(cfg, os.Stderr)

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Debug().Str("proxy", proxyURL.Redacted()).Msg("Using proxy")
	}

	// Per-request timeouts are set by the fetcher and the indexer
	httpClient := &http.Client{Transport: transport}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Dur("index_timeout", cfg.IndexTimeout).
		Msg("HTTP client initialized")

	fetcher := fetch.New(httpClient, fetch.Options{
		Timeout: cfg.HTTPTimeout,
		Retry: retry.Config{
			MaxRetries: cfg.MaxRetries,
			Step:       cfg.BackoffStep,
		},
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
		Headers:        cfg.Headers,
	})

	indexer := archive.NewIndexer(httpClient, archive.IndexerOptions{
		Endpoint:       cfg.CDXEndpoint,
		UserAgent:      cfg.UserAgent,
		Timeout:        cfg.IndexTimeout,
		CollapseDigits: cfg.CollapseDigits,
	})

	app := &Application{
		Config:     cfg,
		Logger:     &logger,
		HTTPClient: httpClient,
		Fetcher:    fetcher,
		Indexer:    indexer,
		startTime:  time.Now(),
	}

	logger.Debug().Msg("Application initialized successfully")
	return app, nil
}

// setupLogger configures the global zerolog logger; logs always go to w,
// never to stdout
func setupLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	level := zerolog.ErrorLevel
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "info":
		// info stays quiet unless -v is used
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JSONLog {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}

	logger := log.Logger
	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")
	return logger
}

// Runner returns an orchestrator over the application's fetcher and indexer.
// limit overrides the configured entry limit when > 0.
func (a *Application) Runner(limit int, progress func(total int) report.Progress) *report.Runner {
	if limit <= 0 {
		limit = a.Config.Limit
	}
	return report.NewRunner(a.Fetcher, a.Indexer, report.Options{
		TargetURL:   a.Config.TargetURL,
		ArchiveBase: a.Config.ArchiveBase,
		Limit:       limit,
		YearsBack:   a.Config.YearsBack,
		NewProgress: progress,
	})
}

// Close releases idle connections held by the HTTP client
func (a *Application) Close(ctx context.Context) error {
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}
	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
