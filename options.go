package dobbi

import (
	"context"

	"github.com/baditaflorin/l"
	"github.com/iaramer/dobbi/internal/adapters/logger"
	"github.com/iaramer/dobbi/internal/core/domain"
	"github.com/iaramer/dobbi/internal/core/pattern"
	"github.com/iaramer/dobbi/internal/core/pipeline"
	"github.com/iaramer/dobbi/internal/ports"
	"github.com/iaramer/dobbi/internal/warmup"
)

// Option configures a builder at construction time.
type Option func(*config)

type config struct {
	logger         ports.Logger
	keepWhitespace bool
	lowercase      bool
	warmUp         bool
	warmUpConfig   warmup.Config
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger.FromExisting(lg)
	}
}

// WithKeepWhitespace disables the final collapse-and-trim pass, leaving
// whatever whitespace the chained steps produce. No effect on collectors.
func WithKeepWhitespace() Option {
	return func(cfg *config) {
		cfg.keepWhitespace = true
	}
}

// WithLowercase lowercases the final result. No effect on collectors.
func WithLowercase() Option {
	return func(cfg *config) {
		cfg.lowercase = true
	}
}

// WithWarmUp pre-exercises every registry rule at construction time.
func WithWarmUp(enable bool) Option {
	return func(cfg *config) {
		cfg.warmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration and enables
// warm-up.
func WithWarmUpConfig(wc warmup.Config) Option {
	return func(cfg *config) {
		cfg.warmUpConfig = wc
		cfg.warmUp = true
	}
}

func newJob(mode domain.Mode, opts []Option) (job, *config) {
	cfg := &config{warmUpConfig: warmup.DefaultConfig()}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		if std, err := logger.NewStdLogger(); err == nil {
			cfg.logger = std
		} else {
			cfg.logger = logger.Nop()
		}
	}

	if cfg.warmUp {
		warmRegistry(cfg)
	}

	return job{
		mode:   mode,
		engine: pipeline.NewEngine(cfg.logger),
		logger: cfg.logger,
	}, cfg
}

// warmRegistry runs every built-in rule over sample text so compiled
// patterns and catalogs are hot before first use.
func warmRegistry(cfg *config) {
	mgr := warmup.NewManager(cfg.logger, cfg.warmUpConfig)
	names := []string{
		pattern.URL, pattern.Hashtag, pattern.Nickname, pattern.HTML,
		pattern.Punctuation, pattern.Whitespace, pattern.Emoji, pattern.Emoticons,
	}
	for _, name := range names {
		rule, err := pattern.Lookup(name)
		if err != nil {
			cfg.logger.Warn("skipping warm-up for rule", "rule", name, "error", err)
			continue
		}
		mgr.Register(func(text string) {
			rule.Remove(text)
			rule.Find(text)
		})
	}
	mgr.Run(context.Background())
}
