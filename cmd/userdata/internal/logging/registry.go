package logging

import (
	"io"
	"sync"
)

// Registry hands out named loggers that share one output sink.
// Asking for the same name twice returns the same *Logger, so a logger is
// never configured with a second output.
type Registry struct {
	mu      sync.Mutex
	config  LoggerConfig
	out     io.Writer
	closer  io.Closer
	loggers map[string]*Logger
}

// NewRegistry opens the sink described by config. config.Name is ignored;
// names are supplied to Get.
func NewRegistry(config LoggerConfig) *Registry {
	config = withDefaults(config)
	out, closer := newSink(config)
	return &Registry{
		config:  config,
		out:     out,
		closer:  closer,
		loggers: make(map[string]*Logger),
	}
}

// Get returns the logger registered under name, creating it on first use.
func (r *Registry) Get(name string) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l
	}

	config := r.config
	config.Name = name
	l := newLogger(config, r.out)
	r.loggers[name] = l
	return l
}

// Close releases the shared sink.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
