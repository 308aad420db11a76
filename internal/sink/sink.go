package sink

import (
	"io"
	"sync"
)

// Sink is a destination for formatted log lines. Each Write carries exactly
// one newline-terminated line; implementations serialize their own writes.
type Sink interface {
	io.Writer
	Close() error
}

type console struct {
	mu sync.Mutex
	w  io.Writer
}

// Console wraps a writer (typically os.Stdout) as a Sink. Writes are
// mutex-serialized so interleaved loggers never split a line.
func Console(w io.Writer) Sink {
	return &console{w: w}
}

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}

// Close is a no-op; the console sink does not own its writer.
func (c *console) Close() error { return nil }
