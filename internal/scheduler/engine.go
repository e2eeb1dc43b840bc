package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/duetasks/internal/clock"
)

const DefaultInterval = 60 * time.Second

var ErrInvalidInterval = errors.New("scheduler: invalid interval")

type TickReason string

const (
	TickStartup  TickReason = "startup"
	TickInterval TickReason = "interval"
	TickTrigger  TickReason = "trigger"
)

type Tick struct {
	At     time.Time
	Reason TickReason
}

// Engine emits a Tick on C() once at start and then every interval. It only
// signals; the consumer runs the reminder check on its own goroutine so
// checks never overlap. Ticks the consumer cannot take are dropped.
type Engine struct {
	mu       sync.Mutex
	interval time.Duration
	clock    clock.Clock
	out      chan Tick
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool
	dropped  uint64
}

func NewEngine(interval time.Duration, bufferSize int, clk clock.Clock) (*Engine, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Engine{
		interval: interval,
		clock:    clk,
		out:      make(chan Tick, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

func (e *Engine) C() <-chan Tick {
	return e.out
}

func (e *Engine) Interval() time.Duration {
	return e.interval
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.loop()
}

// Stop halts the loop and closes C(). It is safe to call more than once.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.doneCh
	} else {
		close(e.out)
	}
}

// Trigger asks for an extra tick right away. It is a no-op before Start and
// after Stop.
func (e *Engine) Trigger() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started || e.stopped {
		return
	}
	e.emit(TickTrigger)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	e.emit(TickStartup)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.emit(TickInterval)
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) emit(reason TickReason) {
	select {
	case e.out <- Tick{At: e.clock.Now(), Reason: reason}:
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}
