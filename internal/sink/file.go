package sink

import (
	"fmt"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
)

type fileSink struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder // nil when compression is off
}

// NewFile opens (or creates) path in append mode. With compress set, lines
// are written through a zstd encoder; the resulting file is a standard zstd
// stream readable by any zstd decoder.
func NewFile(path string, compress bool) (Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}

	s := &fileSink{f: f}
	if compress {
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("sink: zstd encoder: %w", err)
		}
		s.enc = enc
	}
	return s, nil
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enc != nil {
		return s.enc.Write(p)
	}
	return s.f.Write(p)
}

// Close flushes the encoder frame (when compressing) and then the file.
func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enc != nil {
		if err := s.enc.Close(); err != nil {
			s.f.Close()
			return err
		}
	}
	return s.f.Close()
}
