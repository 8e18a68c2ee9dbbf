// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swiperec/internal/recommend"
)

// ModelLifecycle is the part of *recommend.Engine the retrain service drives.
type ModelLifecycle interface {
	InitializeModel(ctx context.Context, path string, forceRetrain bool) error
	TrainWithTrigger(ctx context.Context, trigger string) error
	SaveModel(path string) error
}

// RetrainServiceConfig configures the retrain service.
type RetrainServiceConfig struct {
	// ModelPath is where the artifact is loaded from and saved to.
	// Empty disables persistence.
	ModelPath string

	// OnStartup loads the stored model, or trains one, when the service starts.
	OnStartup bool

	// ForceRetrain ignores a stored model at startup.
	ForceRetrain bool

	// Interval between scheduled retrains. Zero disables the schedule.
	Interval time.Duration

	// Timeout bounds each startup or scheduled training run. Default: 30m.
	Timeout time.Duration
}

// RetrainService owns the model lifecycle outside the request path: the
// startup load-or-train and the periodic full retrain. Swipe-threshold
// retrains are scheduled by the engine itself.
type RetrainService struct {
	engine ModelLifecycle
	config RetrainServiceConfig
	logger zerolog.Logger

	initialized bool
}

// NewRetrainService creates a retrain service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(engine ModelLifecycle, cfg RetrainServiceConfig, logger zerolog.Logger) *RetrainService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &RetrainService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "retrain").Logger(),
	}
}

// Serve implements suture.Service. Training failures are logged and never
// returned: the previous model keeps serving, and a restart would only
// repeat the same failing run.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Bool("force", s.config.ForceRetrain).
		Dur("interval", s.config.Interval).
		Msg("retrain service starting")

	// Startup runs once per process, not once per supervisor restart.
	if s.config.OnStartup && !s.initialized {
		s.initialize(ctx)
		s.initialized = true
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retrain service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.retrain(ctx)
		}
	}
}

func (s *RetrainService) initialize(ctx context.Context) {
	initCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := s.engine.InitializeModel(initCtx, s.config.ModelPath, s.config.ForceRetrain); err != nil {
		s.logger.Warn().Err(err).Msg("model initialization failed, first request will train or fall back to popularity")
		return
	}
	s.logger.Info().Str("path", s.config.ModelPath).Msg("model initialized")
}

func (s *RetrainService) retrain(ctx context.Context) {
	trainCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	err := s.engine.TrainWithTrigger(trainCtx, recommend.TriggerSchedule)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Msg("scheduled retrain skipped, training already in progress")
		return
	case err != nil:
		s.logger.Error().Err(err).Msg("scheduled retrain failed, keeping previous model")
		return
	}

	if s.config.ModelPath == "" {
		return
	}
	if err := s.engine.SaveModel(s.config.ModelPath); err != nil {
		s.logger.Warn().Err(err).Str("path", s.config.ModelPath).Msg("failed to persist retrained model")
	}
}

// String names the service in supervisor events.
func (s *RetrainService) String() string {
	return "retrain-service"
}
