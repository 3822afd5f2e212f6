package store

import (
	"time"

	"go.uber.org/zap"
)

type settings struct {
	now    func() time.Time
	logger *zap.Logger
	ids    *IDGenerator
}

// Option configures a store
type Option func(*settings)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithLogger sets the logger used for persistence warnings
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithIDGenerator shares an id generator between stores
func WithIDGenerator(g *IDGenerator) Option {
	return func(s *settings) { s.ids = g }
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.ids == nil {
		s.ids = NewIDGenerator(s.now)
	}
	return s
}
