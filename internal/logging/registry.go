package logging

import (
	"log/slog"
	"os"
	"sync"

	"github.com/coffersTech/logveil/internal/policy"
	"github.com/coffersTech/logveil/internal/sink"
)

// Registry hands out named redacting loggers. A name maps to exactly one
// logger with exactly one sink attachment for the life of the registry, so
// asking twice never doubles output. Registries are explicit objects, not
// ambient globals; tests build their own.
type Registry struct {
	formatter *Formatter
	separator string
	level     slog.Level
	out       sink.Sink

	mu      sync.Mutex
	loggers map[string]*slog.Logger
}

// Option adjusts registry construction.
type Option func(*Registry)

// WithSink routes all loggers to out instead of the console. The registry
// takes ownership; Close closes it.
func WithSink(out sink.Sink) Option {
	return func(r *Registry) { r.out = out }
}

// WithLevel sets the minimum severity; records below it are dropped.
func WithLevel(level slog.Level) Option {
	return func(r *Registry) { r.level = level }
}

// NewRegistry validates the policy and builds the shared formatter once.
// Default sink is the console (stdout), default minimum level INFO.
func NewRegistry(p policy.Policy, opts ...Option) (*Registry, error) {
	f, err := NewFormatter(p)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		formatter: f,
		separator: p.Separator,
		level:     slog.LevelInfo,
		out:       sink.Console(os.Stdout),
		loggers:   make(map[string]*slog.Logger),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Logger returns the logger for name, creating it on first use. slog loggers
// have no ancestor propagation: the registry-built handler is the only path
// to output.
func (r *Registry) Logger(name string) *slog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l
	}
	l := slog.New(newHandler(name, r.level, r.formatter, r.separator, r.out))
	r.loggers[name] = l
	return l
}

// Close closes the sink. Loggers obtained from the registry must not be used
// afterwards.
func (r *Registry) Close() error {
	return r.out.Close()
}
