// Package timeouts holds the deadlines applied to store calls and other I/O
// made while serving a request. Handlers wrap r.Context() with one of the
// four classes below:
//   - Ping: connectivity checks (health, startup)
//   - Short: single-document reads and writes
//   - Medium: list and aggregate queries
//   - Long: multi-collection work such as the account delete cascade
//
// Values start at the defaults and may be replaced once at startup with
// Configure.
package timeouts

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// Config is one value per timeout class. Zero fields mean "keep current".
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

var defaults = Config{
	Ping:   DefaultPing,
	Short:  DefaultShort,
	Medium: DefaultMedium,
	Long:   DefaultLong,
}

var (
	mu  sync.RWMutex
	cur = defaults
)

func Ping() time.Duration   { return Current().Ping }
func Short() time.Duration  { return Current().Short }
func Medium() time.Duration { return Current().Medium }
func Long() time.Duration   { return Current().Long }

// Configure overrides the non-zero fields of c.
func Configure(c Config) {
	mu.Lock()
	defer mu.Unlock()
	cur = merge(cur, c)
}

func merge(base, over Config) Config {
	pick := func(old, v time.Duration) time.Duration {
		if v > 0 {
			return v
		}
		return old
	}
	return Config{
		Ping:   pick(base.Ping, over.Ping),
		Short:  pick(base.Short, over.Short),
		Medium: pick(base.Medium, over.Medium),
		Long:   pick(base.Long, over.Long),
	}
}

// Reset restores the defaults. Tests call it in cleanup.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults
}

// Current returns a snapshot of the active values.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline, rather than the caller, ended the operation.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete account")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if log != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
