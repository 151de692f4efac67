package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull indicates the HTTP sink dropped an event.
	ErrQueueFull = errors.New("analytics queue is full")
	// ErrSinkClosed indicates Send after Close.
	ErrSinkClosed = errors.New("analytics sink is closed")
)

const (
	defaultQueueSize      = 64
	defaultRequestTimeout = 5 * time.Second
)

// HTTPOptions configures an HTTPSink.
type HTTPOptions struct {
	Endpoint string
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// QueueSize bounds the number of undelivered events.
	QueueSize      int
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// HTTPSink posts events as JSON from a background worker. Send never
// blocks on the network.
type HTTPSink struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	closed bool
	queue  chan Event

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHTTPSink starts the delivery worker.
func NewHTTPSink(opts HTTPOptions) (*HTTPSink, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("analytics endpoint is required")
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &HTTPSink{
		endpoint: opts.Endpoint,
		client:   client,
		timeout:  timeout,
		logger:   logger,
		queue:    make(chan Event, size),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Send queues the event for delivery.
func (s *HTTPSink) Send(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	select {
	case s.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for the queue to drain. When ctx
// ends first, in-flight delivery is abandoned.
func (s *HTTPSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-s.done
		return ctx.Err()
	}
}

func (s *HTTPSink) run() {
	defer close(s.done)
	for event := range s.queue {
		if s.ctx.Err() != nil {
			continue
		}
		if err := s.post(event); err != nil {
			s.logger.Warn("analytics delivery failed",
				zap.String("event", event.Name),
				zap.String("id", event.ID),
				zap.Error(err),
			)
		}
	}
}

func (s *HTTPSink) post(event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post event: unexpected status %s", resp.Status)
	}
	return nil
}
