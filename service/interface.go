package service

import "context"

// Service defines the lifecycle of long-lived operator infrastructure
// Audio output, terminal screen and metric export are services
//
// Lifecycle:
//  1. Construction
//  2. Init(ctx) - acquire configuration-dependent resources
//  3. Start(ctx) - begin output or background work
//  4. [runtime operation]
//  5. Stop() - release resources, idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	Init(ctx context.Context) error
	Start(ctx context.Context) error

	// Stop must be safe to call more than once
	Stop() error
}
