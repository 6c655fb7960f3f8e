package audio

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/lixenwraith/vi-operator/display"
)

// Service wraps Player as a service
// A missing audio backend degrades to silence instead of failing startup
type Service struct {
	cfg      Config
	logger   *slog.Logger
	player   *Player
	disabled atomic.Bool
}

// NewService creates the audio service
func NewService(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, logger: logger}
}

// Name implements service.Service
func (s *Service) Name() string { return "audio" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return nil }

// Init implements service.Service
func (s *Service) Init(context.Context) error {
	s.player = NewPlayer(s.cfg, s.logger)
	if !s.cfg.Enabled {
		s.disabled.Store(true)
	}
	return nil
}

// Start implements service.Service
func (s *Service) Start(context.Context) error {
	if s.disabled.Load() || s.player == nil {
		return nil
	}
	if err := s.player.Start(); err != nil {
		s.logger.Warn("audio unavailable, continuing silent", "error", err)
		s.disabled.Store(true)
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.player != nil {
		s.player.Stop()
	}
	return nil
}

// Disabled reports whether audio is muted or unavailable
func (s *Service) Disabled() bool {
	return s.disabled.Load()
}

// Voice returns the panel voice; silent when audio is unavailable
func (s *Service) Voice() display.Voice {
	if s.disabled.Load() || s.player == nil {
		return display.NopVoice{}
	}
	return s.player
}
