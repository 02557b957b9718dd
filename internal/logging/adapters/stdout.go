package adapters

import (
	"sync"

	"interview-companion/internal/logging/types"
)

// StdoutAdapter implements the LogAdapter interface for stdout output
type StdoutAdapter struct {
	name   string
	writer *zapWriter
	mu     sync.Mutex
}

// StdoutConfig represents configuration for the stdout adapter
type StdoutConfig struct {
	Format    string `yaml:"format"`    // json or text
	Colorized bool   `yaml:"colorized"` // enable colored output
}

// NewStdoutAdapter creates a new stdout adapter
func NewStdoutAdapter(name string, config StdoutConfig) (*StdoutAdapter, error) {
	writer, err := newZapWriter(config.Format, config.Colorized, []string{"stdout"})
	if err != nil {
		return nil, err
	}

	return &StdoutAdapter{
		name:   name,
		writer: writer,
	}, nil
}

// Write writes a log entry to stdout
func (a *StdoutAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writer.write(entry)
}

// Close flushes buffered entries. Sync errors on a terminal are not actionable.
func (a *StdoutAdapter) Close() error {
	_ = a.writer.sync()
	return nil
}

// Health returns the health status of the adapter
func (a *StdoutAdapter) Health() error {
	return nil
}

// Name returns the name of the adapter
func (a *StdoutAdapter) Name() string {
	return a.name
}
