package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/fields"
	"github.com/nextracker/nextracker/internal/logger"
)

// EventType distinguishes the two notifications a poll produces.
type EventType int

const (
	// EventStarted is sent before the fetch begins.
	EventStarted EventType = iota
	// EventOutcome carries the finished poll.
	EventOutcome
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventOutcome:
		return "outcome"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Outcome is the result of one poll. It succeeded when Err is nil.
type Outcome struct {
	Seq      uint64
	Result   fields.Result
	Err      error
	Started  time.Time
	Finished time.Time
}

// OK reports whether the poll succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Kind returns the error code of a failed poll (errors.ErrTransport or
// errors.ErrDecode), or "" on success.
func (o Outcome) Kind() string {
	return errors.CodeOf(o.Err)
}

// Duration returns how long the poll took.
func (o Outcome) Duration() time.Duration {
	return o.Finished.Sub(o.Started)
}

// Event is delivered to a Listener. Outcome is only set for EventOutcome.
type Event struct {
	Type    EventType
	Seq     uint64
	Outcome Outcome
}

// Listener receives poll events. It runs on the polling goroutine while the
// in-flight slot is held, so it must return promptly and must not call Poll
// or Stop.
type Listener func(Event)

// ChannelListener forwards events to ch. Sends give up once ctx is done, so a
// consumer that stopped reading cannot wedge the poller.
func ChannelListener(ctx context.Context, ch chan<- Event) Listener {
	return func(ev Event) {
		select {
		case ch <- ev:
		case <-ctx.Done():
		}
	}
}

// Coordinator runs polls one at a time, on demand or on a fixed interval.
//
// Manual and periodic polls share a single in-flight slot, and events are
// delivered while it is held so listeners see polls in sequence order. A
// manual Refresh while a poll is running is coalesced into at most one
// follow-up poll. Every completed poll, periodic or manual, restarts the
// interval countdown.
//
// Stop abandons an in-flight poll: its request is cancelled and its outcome
// is dropped. No event is delivered after Stop returns.
type Coordinator struct {
	fetcher Fetcher
	mapper  *fields.Mapper
	sel     fields.Selection
	log     logger.Logger

	slot   sync.Mutex
	seq    atomic.Uint64
	manual atomic.Uint64

	mu      sync.Mutex
	runGen  uint64
	cancel  context.CancelFunc
	trigger chan struct{}
	reset   chan struct{}
	done    chan struct{}

	// emitMu guards listener and gen. A listener is only called with emitMu
	// held, so clearing it waits out any delivery in progress.
	emitMu   sync.Mutex
	listener Listener
	gen      uint64
}

// New creates a coordinator that resolves sel with mapper against documents
// returned by fetcher. The selection should already be validated.
func New(fetcher Fetcher, mapper *fields.Mapper, sel fields.Selection) *Coordinator {
	return &Coordinator{
		fetcher: fetcher,
		mapper:  mapper,
		sel:     sel.Normalize(),
		log:     logger.Noop(),
	}
}

// SetLogger sets the logger for poll tracing.
func (c *Coordinator) SetLogger(l logger.Logger) {
	if l != nil {
		c.log = l
	}
}

// Selection returns the normalized selection being polled.
func (c *Coordinator) Selection() fields.Selection {
	return c.sel.Normalize()
}

// Running reports whether the periodic worker is active.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}

// Poll runs one poll synchronously and returns its outcome. When the
// coordinator is running, the listener sees the poll's events too and the
// interval countdown restarts once it completes. Poll waits for an in-flight
// poll to finish before starting its own.
func (c *Coordinator) Poll(ctx context.Context) Outcome {
	c.slot.Lock()
	defer c.slot.Unlock()

	out, _ := c.pollLocked(ctx, c.generation(), false)
	c.manual.Add(1)

	c.mu.Lock()
	reset := c.reset
	c.mu.Unlock()
	if reset != nil {
		select {
		case reset <- struct{}{}:
		default:
		}
	}
	return out
}

// Start launches the periodic worker. The first poll runs immediately; the
// next one interval after it completes.
func (c *Coordinator) Start(interval time.Duration, listener Listener) error {
	if interval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Poll interval must be positive, got %s", interval),
			"Set interval to something like 30s")
	}
	if listener == nil {
		return errors.New(errors.ErrConfig,
			"A poll listener is required",
			"Pass a Listener, e.g. poller.ChannelListener")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return errors.New(errors.ErrConfig,
			"Poller is already running",
			"Call Stop before starting it again")
	}

	c.emitMu.Lock()
	c.gen++
	gen := c.gen
	c.listener = listener
	c.emitMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	c.runGen = gen
	c.cancel = cancel
	c.trigger = make(chan struct{}, 1)
	c.reset = make(chan struct{}, 1)
	c.done = make(chan struct{})

	go c.run(ctx, interval, gen, c.trigger, c.reset, c.done)
	c.log.Debug("poller started, interval %s", interval)
	return nil
}

// Refresh requests a poll as soon as the slot is free. It never blocks.
// Requests made while one is already pending are merged into it. Refresh is
// a no-op when the coordinator is not running.
func (c *Coordinator) Refresh() {
	c.mu.Lock()
	trigger := c.trigger
	c.mu.Unlock()

	if trigger == nil {
		return
	}
	select {
	case trigger <- struct{}{}:
	default:
		c.log.Debug("refresh already pending")
	}
}

// Stop ends the periodic schedule and waits for the worker to exit. Calling
// Stop more than once, or on a coordinator that never started, is safe.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel, done, gen := c.cancel, c.done, c.runGen
	c.cancel = nil
	c.trigger = nil
	c.reset = nil
	c.done = nil
	c.mu.Unlock()

	if done == nil {
		return
	}
	cancel()

	// A Start that slipped in after the block above owns a newer generation
	// and keeps its listener.
	c.emitMu.Lock()
	if c.gen == gen {
		c.listener = nil
	}
	c.emitMu.Unlock()

	<-done
	c.log.Debug("poller stopped")
}

func (c *Coordinator) run(ctx context.Context, interval time.Duration, gen uint64, trigger, reset <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()
	armed := c.manual.Load()

	for {
		periodic := false
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			periodic = true
		case <-trigger:
			timer.Stop()
		case <-reset:
			timer.Reset(interval)
			armed = c.manual.Load()
			continue
		}

		c.slot.Lock()
		if periodic && c.manual.Load() != armed {
			// A manual poll finished while this one waited for the slot.
			c.slot.Unlock()
			timer.Reset(interval)
			armed = c.manual.Load()
			continue
		}
		out, abandoned := c.pollLocked(ctx, gen, true)
		c.slot.Unlock()

		if abandoned {
			c.log.Debug("poll %d abandoned", out.Seq)
			return
		}
		timer.Reset(interval)
		armed = c.manual.Load()
	}
}

func (c *Coordinator) generation() uint64 {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	return c.gen
}

// emit delivers ev if gen's listener is still installed.
func (c *Coordinator) emit(gen uint64, ev Event) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if c.listener != nil && c.gen == gen {
		c.listener(ev)
	}
}

// pollLocked runs one fetch and resolve. The caller holds the slot. With
// abandonable set, a poll whose ctx was cancelled delivers no outcome.
func (c *Coordinator) pollLocked(ctx context.Context, gen uint64, abandonable bool) (Outcome, bool) {
	out := Outcome{Seq: c.seq.Add(1), Started: time.Now()}
	c.emit(gen, Event{Type: EventStarted, Seq: out.Seq})
	c.log.Debug("poll %d started", out.Seq)

	doc, err := c.fetcher.Fetch(ctx)
	out.Finished = time.Now()

	if abandonable && ctx.Err() != nil {
		return out, true
	}

	if err != nil {
		if errors.CodeOf(err) == "" {
			err = errors.Wrap(err, "Poll failed")
		}
		out.Err = err
		c.log.Debug("poll %d failed after %s: %s", out.Seq, out.Duration(), out.Kind())
	} else {
		out.Result = c.mapper.Resolve(doc, c.sel)
		c.log.Debug("poll %d finished in %s", out.Seq, out.Duration())
	}

	c.emit(gen, Event{Type: EventOutcome, Seq: out.Seq, Outcome: out})
	return out, false
}
