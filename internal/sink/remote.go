package sink

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// RemoteConfig holds the collector endpoint and shipping knobs.
type RemoteConfig struct {
	URL    string
	APIKey string

	// BatchSize and FlushEvery default to 100 lines and 1 second.
	BatchSize  int
	FlushEvery time.Duration
	QueueDepth int
}

// RemoteStats counts lines the shipper has accepted, delivered and dropped.
type RemoteStats struct {
	Queued  int64
	Shipped int64
	Dropped int64
}

// Remote ships redacted lines to an HTTP collector in JSON-array batches.
// Lines are queued without blocking the logging call path; when the queue is
// full the line is dropped and counted, never waited on.
type Remote struct {
	cfg        RemoteConfig
	instanceID string
	client     *http.Client

	queue chan string
	done  chan struct{}
	wg    sync.WaitGroup

	queued  atomic.Int64
	shipped atomic.Int64
	dropped atomic.Int64
}

// NewRemote starts the shipping loop. Close must be called to drain the
// queue before process exit.
func NewRemote(cfg RemoteConfig) *Remote {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = 1 * time.Second
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 10000
	}

	r := &Remote{
		cfg:        cfg,
		instanceID: uuid.New().String(),
		client:     &http.Client{Timeout: 5 * time.Second},
		queue:      make(chan string, cfg.QueueDepth),
		done:       make(chan struct{}),
	}

	r.wg.Add(1)
	go r.runLoop()
	return r
}

func (r *Remote) Write(p []byte) (int, error) {
	line := strings.TrimSuffix(string(p), "\n")
	select {
	case r.queue <- line:
		r.queued.Add(1)
	default:
		r.dropped.Add(1)
		fmt.Fprintln(os.Stderr, "logveil: remote sink queue full, dropping line")
	}
	return len(p), nil
}

// Close stops the loop, drains whatever is still queued and ships the final
// batch.
func (r *Remote) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}

// Stats returns a snapshot of the shipping counters.
func (r *Remote) Stats() RemoteStats {
	return RemoteStats{
		Queued:  r.queued.Load(),
		Shipped: r.shipped.Load(),
		Dropped: r.dropped.Load(),
	}
}

func (r *Remote) runLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.FlushEvery)
	defer ticker.Stop()

	var batch []string

	send := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.post(batch); err != nil {
			fmt.Fprintf(os.Stderr, "logveil: remote sink send failed: %v\n", err)
			r.dropped.Add(int64(len(batch)))
		} else {
			r.shipped.Add(int64(len(batch)))
		}
		batch = nil
	}

	for {
		select {
		case line := <-r.queue:
			batch = append(batch, line)
			if len(batch) >= r.cfg.BatchSize {
				send()
			}
		case <-ticker.C:
			send()
		case <-r.done:
			for {
				select {
				case line := <-r.queue:
					batch = append(batch, line)
				default:
					send()
					return
				}
			}
		}
	}
}

func (r *Remote) post(lines []string) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(r.cfg.URL, "/")+"/api/ingest/lines", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}
	req.Header.Set("X-Instance-ID", r.instanceID)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	return nil
}
