// Package session debounces validation requests from an editor host.
//
// The lint engine itself is stateless. Hosts that revalidate on every
// keystroke submit each revision here, keyed by buffer, and the handler
// runs once the buffer has been quiet for the configured delay.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/cfmtlint/internal/logging"
)

// DefaultDelay is the quiet period before a submitted buffer is handled.
const DefaultDelay = 500 * time.Millisecond

// Handler receives the latest text of a buffer once its timer expires.
// The context is cancelled when the scheduler closes.
type Handler func(ctx context.Context, key, text string)

// Scheduler runs a Handler per buffer key after a quiet period.
// It is safe for concurrent use.
type Scheduler struct {
	handler Handler
	delay   time.Duration
	logger  *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending map[string]*entry
	seq     uint64
	closed  bool
	running sync.WaitGroup
}

type entry struct {
	timer *time.Timer
	text  string
	seq   uint64
}

// Options configures a Scheduler.
type Options struct {
	// Delay is the quiet period. Zero or negative means DefaultDelay.
	Delay time.Duration

	// Logger receives handler failures. Nil means the default logger.
	Logger *log.Logger
}

// New creates a Scheduler that calls handler.
func New(handler Handler, opts Options) *Scheduler {
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		handler: handler,
		delay:   delay,
		logger:  logger,
		ctx:     logging.WithLogger(ctx, logger),
		cancel:  cancel,
		pending: make(map[string]*entry),
	}
}

// Delay returns the quiet period.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Submit records text as the latest revision of key and restarts its timer.
// It reports false once the scheduler is closed.
func (s *Scheduler) Submit(key, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
	}

	s.seq++
	seq := s.seq
	s.pending[key] = &entry{
		text:  text,
		seq:   seq,
		timer: time.AfterFunc(s.delay, func() { s.fire(key, seq) }),
	}

	s.logger.Debug("buffer scheduled", logging.FieldBuffer, key, logging.FieldDelay, s.delay)

	return true
}

// Cancel drops the pending revision of key, if any.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pending[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.pending, key)

	return true
}

// Pending returns the number of buffers waiting for their timer.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// Close stops all timers, cancels running handlers and waits for them.
// Pending revisions are discarded.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for key, e := range s.pending {
		e.timer.Stop()
		delete(s.pending, key)
	}
	s.mu.Unlock()

	s.cancel()
	s.running.Wait()
}

func (s *Scheduler) fire(key string, seq uint64) {
	s.mu.Lock()
	e, ok := s.pending[key]
	// A newer Submit or a Cancel won the race against this timer.
	if !ok || e.seq != seq || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.running.Add(1)
	s.mu.Unlock()

	defer s.running.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panicked", logging.FieldBuffer, key, logging.FieldError, r)
		}
	}()

	s.handler(s.ctx, key, e.text)
}
