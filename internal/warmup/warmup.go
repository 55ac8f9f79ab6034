// Package warmup pre-exercises compiled rules and pipelines so the first
// real request does not pay for lazy regexp machinery and allocator
// growth.
package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/iaramer/dobbi/internal/ports"
)

// Config defines how aggressively the system is warmed up.
type Config struct {
	// Concurrency is the number of warm-up goroutines.
	Concurrency int
	// Iterations is the number of passes per goroutine.
	Iterations int
	// SampleTextSize is the length of the generated sample text.
	SampleTextSize int
	// Duration caps the warm-up time; zero means no limit.
	Duration time.Duration
	// ForceGC triggers a garbage collection once warm-up finishes.
	ForceGC bool
}

// DefaultConfig returns the default warm-up configuration.
func DefaultConfig() Config {
	return Config{
		Concurrency:    runtime.NumCPU(),
		Iterations:     200,
		SampleTextSize: 1000,
		Duration:       2 * time.Second,
		ForceGC:        true,
	}
}

// Runner is one warm-up unit of work, applied repeatedly to sample text.
type Runner func(text string)

// Manager runs registered runners over generated sample text.
type Manager struct {
	logger  ports.Logger
	config  Config
	runners []Runner
}

// NewManager creates a warm-up manager.
func NewManager(logger ports.Logger, config Config) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.NumCPU()
	}
	if config.Iterations <= 0 {
		config.Iterations = DefaultConfig().Iterations
	}
	if config.SampleTextSize <= 0 {
		config.SampleTextSize = DefaultConfig().SampleTextSize
	}
	return &Manager{logger: logger, config: config}
}

// Register adds a runner to be warmed up.
func (m *Manager) Register(r Runner) {
	m.runners = append(m.runners, r)
}

// Run executes every registered runner Iterations times across Concurrency
// goroutines, bounded by Duration when set.
func (m *Manager) Run(ctx context.Context) {
	if len(m.runners) == 0 {
		return
	}

	start := time.Now()
	if m.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.Duration)
		defer cancel()
	}

	m.logger.Info("starting warm-up",
		"concurrency", m.config.Concurrency,
		"iterations", m.config.Iterations,
		"runners", len(m.runners),
	)

	text := SampleText(m.config.SampleTextSize)

	var wg sync.WaitGroup
	for g := 0; g < m.config.Concurrency; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < m.config.Iterations; i++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				for _, runner := range m.runners {
					runner(text)
				}
			}
		}()
	}
	wg.Wait()

	if m.config.ForceGC {
		runtime.GC()
	}

	m.logger.Info("warm-up complete", "duration", time.Since(start))
}

// SampleText generates text of roughly the requested size containing every
// pattern class the rules match: URLs, hashtags, nicknames, HTML tags,
// punctuation, mixed whitespace and emoticons.
func SampleText(size int) string {
	const sample = "Check https://example.com/warm?x=1 #warmup @dobbi <b>bold</b> " +
		"it's fine :) right :D ...\tno\nproblem! "
	var sb strings.Builder
	sb.Grow(size + len(sample))
	for sb.Len() < size {
		sb.WriteString(sample)
	}
	return sb.String()
}
