package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ScreenService owns the terminal screen lifecycle
type ScreenService struct {
	mu     sync.Mutex
	screen tcell.Screen
	ready  bool
}

// NewScreenService wraps screen, or the real terminal when screen is nil
func NewScreenService(screen tcell.Screen) *ScreenService {
	return &ScreenService{screen: screen}
}

// Name implements service.Service
func (s *ScreenService) Name() string { return "screen" }

// Dependencies implements service.Service
func (s *ScreenService) Dependencies() []string { return nil }

// Init implements service.Service
func (s *ScreenService) Init(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		s.screen = screen
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	s.screen.SetStyle(tcell.StyleDefault.Background(rgbBackground))
	s.screen.HideCursor()
	s.screen.Clear()
	s.ready = true
	return nil
}

// Start implements service.Service
func (s *ScreenService) Start(context.Context) error { return nil }

// Stop implements service.Service
func (s *ScreenService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		s.screen.Fini()
		s.ready = false
	}
	return nil
}

// Screen returns the managed screen
func (s *ScreenService) Screen() tcell.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}
