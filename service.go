package kaoyan

import (
	"math/rand/v2"
	"time"
)

// ServiceOption configures the study services.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	now  func() time.Time
	intn func(n int) int
}

// WithClock sets the time source used for cache timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(c *serviceConfig) { c.now = now }
}

// WithRand sets the source used to pick subjects, daily notes and
// fallback content. intn must return a value in [0, n).
func WithRand(intn func(n int) int) ServiceOption {
	return func(c *serviceConfig) { c.intn = intn }
}

func newServiceConfig(opts []ServiceOption) serviceConfig {
	c := serviceConfig{now: time.Now, intn: rand.IntN}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func pick[T any](c serviceConfig, items []T) T {
	return items[c.intn(len(items))]
}
