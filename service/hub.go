package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Hub owns service instances and drives them in dependency order
type Hub struct {
	mu       sync.Mutex
	services map[string]Service
	order    []string // dependency order, computed on InitAll
	inited   []string
	started  []string
	logger   *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		services: make(map[string]Service),
		logger:   logger,
	}
}

// Register adds a service; names must be unique
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.services[name]; exists {
		return fmt.Errorf("service already registered: %s", name)
	}
	h.services[name] = svc
	h.order = nil
	return nil
}

// Order returns the resolved dependency order
func (h *Hub) Order() ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.resolve(); err != nil {
		return nil, err
	}
	return slices.Clone(h.order), nil
}

// InitAll initializes every service in dependency order
// On failure, already-initialized services are stopped in reverse order
func (h *Hub) InitAll(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.resolve(); err != nil {
		return err
	}

	h.inited = h.inited[:0]
	for _, name := range h.order {
		if err := h.services[name].Init(ctx); err != nil {
			h.rollback(h.inited)
			h.inited = nil
			return fmt.Errorf("service %s init: %w", name, err)
		}
		h.inited = append(h.inited, name)
	}
	return nil
}

// StartAll starts initialized services in dependency order
func (h *Hub) StartAll(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.started = h.started[:0]
	for _, name := range h.inited {
		if err := h.services[name].Start(ctx); err != nil {
			h.rollback(h.inited)
			h.started = nil
			h.inited = nil
			return fmt.Errorf("service %s start: %w", name, err)
		}
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops every initialized service in reverse order and joins errors
func (h *Hub) StopAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for i := len(h.inited) - 1; i >= 0; i-- {
		name := h.inited[i]
		if err := h.services[name].Stop(); err != nil {
			h.logger.Warn("service stop failed", "service", name, "error", err)
			errs = append(errs, fmt.Errorf("service %s stop: %w", name, err))
		}
	}
	h.inited = nil
	h.started = nil
	return errors.Join(errs...)
}

func (h *Hub) rollback(names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		if err := h.services[names[i]].Stop(); err != nil {
			h.logger.Warn("service rollback stop failed", "service", names[i], "error", err)
		}
	}
}

// resolve computes dependency order with Kahn's algorithm
// Ties resolve by name so the order is stable across runs
func (h *Hub) resolve() error {
	if h.order != nil {
		return nil
	}

	inDegree := make(map[string]int, len(h.services))
	dependents := make(map[string][]string)
	for name := range h.services {
		inDegree[name] = 0
	}
	for name, svc := range h.services {
		for _, dep := range svc.Dependencies() {
			if _, ok := h.services[dep]; !ok {
				return fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, d := range inDegree {
		if d == 0 {
			ready = append(ready, name)
		}
	}
	slices.Sort(ready)

	order := make([]string, 0, len(h.services))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		var next []string
		for _, dep := range dependents[name] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				next = append(next, dep)
			}
		}
		slices.Sort(next)
		ready = append(ready, next...)
	}

	if len(order) != len(h.services) {
		return errors.New("circular dependency detected in services")
	}
	h.order = order
	return nil
}
