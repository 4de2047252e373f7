package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kurotych/fluckybackup/internal/app"
	"github.com/kurotych/fluckybackup/internal/logging"
	"github.com/kurotych/fluckybackup/internal/slack"
	"github.com/kurotych/fluckybackup/internal/store"
)

// newTransport builds the webhook transport. Tests replace it.
var newTransport = func(timeout time.Duration) slack.Transport {
	return slack.NewHTTPTransport(timeout)
}

// session is the state shared by commands that touch config or history.
type session struct {
	configDir string
	config    *app.Config
	logger    *zap.Logger
	store     store.Store
}

// openSession loads .env files, config and history. The TUI logs to a file
// in the config directory; everything else logs to stderr.
func openSession(logToFile bool) (*session, error) {
	// ./.env may choose the config dir; the config dir's own .env may not.
	if err := app.LoadEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	configDir, err := app.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := app.LoadEnv(filepath.Join(configDir, ".env")); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config, err := app.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	config.OverrideLogLevel(flagLogLevel)

	var logger *zap.Logger
	if logToFile {
		logger, err = logging.NewFile(configDir, config.EffectiveLogLevel())
	} else {
		logger, err = logging.NewStderr(config.EffectiveLogLevel())
	}
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	st, err := store.Open(configDir, config.HistoryBackend, config.HistoryLimit)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open history: %w", err)
	}

	return &session{
		configDir: configDir,
		config:    config,
		logger:    logger,
		store:     st,
	}, nil
}

// dispatcher returns a Slack dispatcher that records every outcome.
func (s *session) dispatcher() *slack.Dispatcher {
	return slack.NewDispatcher(
		newTransport(s.config.HTTPTimeout()),
		slack.WithLogger(s.logger),
		slack.WithUserAgent("fluckybackup/"+version),
		slack.WithRateLimit(s.config.RateLimitPerMinute),
		slack.WithObserver(s.record),
	)
}

func (s *session) record(o slack.Outcome) {
	if err := s.store.Record(context.Background(), o.Delivery()); err != nil {
		s.logger.Warn("Failed to record delivery", zap.String("request_id", o.Request.ID), zap.Error(err))
	}
}

func (s *session) Close() {
	_ = s.store.Close()
	_ = s.logger.Sync()
}
