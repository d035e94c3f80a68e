package events

import (
	"context"
	"log/slog"
	"time"
)

// Sink delivers a batch of events to their destination.
type Sink interface {
	Deliver(ctx context.Context, batch []Event) error
}

// Observer receives delivery outcomes, typically for metrics.
type Observer interface {
	EventsDelivered(n int)
	EventsFailed(n int)
	EventsDropped(n int)
}

type noopObserver struct{}

func (noopObserver) EventsDelivered(int) {}
func (noopObserver) EventsFailed(int)    {}
func (noopObserver) EventsDropped(int)   {}

const (
	defaultBatchSize     = 64
	defaultFlushInterval = 500 * time.Millisecond
	defaultDrainTimeout  = 5 * time.Second
)

// Dispatcher buffers events in memory and delivers them to a Sink from a
// single background worker. Notify never blocks and never fails; a failed
// batch is logged and discarded.
type Dispatcher struct {
	buf           *RingBuffer
	sink          Sink
	logger        *slog.Logger
	observer      Observer
	batchSize     int
	flushInterval time.Duration
	drainTimeout  time.Duration

	wake chan struct{}
	done chan struct{}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observer = o
		}
	}
}

func WithCapacity(n int) Option {
	return func(d *Dispatcher) { d.buf = NewRingBuffer(n) }
}

func WithBatchSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

func WithFlushInterval(interval time.Duration) Option {
	return func(d *Dispatcher) {
		if interval > 0 {
			d.flushInterval = interval
		}
	}
}

func WithDrainTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.drainTimeout = timeout
		}
	}
}

// NewDispatcher creates a dispatcher. Call Run to start delivery.
func NewDispatcher(sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		buf:           NewRingBuffer(defaultCapacity),
		sink:          sink,
		logger:        slog.Default(),
		observer:      noopObserver{},
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		drainTimeout:  defaultDrainTimeout,
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify enqueues an event for delivery.
func (d *Dispatcher) Notify(_ context.Context, event Event) error {
	if d.buf.Enqueue(event) {
		d.observer.EventsDropped(1)
	}
	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of undelivered events.
func (d *Dispatcher) Pending() int {
	return d.buf.Len()
}

// Run delivers events until ctx is cancelled, then drains what is left
// within the drain timeout.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)

	ticker := time.NewTicker(d.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.drainTimeout)
			defer cancel()
			d.flush(drainCtx)
			return nil
		case <-d.wake:
			d.flush(ctx)
		case <-ticker.C:
			d.flush(ctx)
		}
	}
}

// Done is closed once Run has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) flush(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		batch := d.buf.DequeueBatch(d.batchSize)
		if len(batch) == 0 {
			return
		}
		if err := d.sink.Deliver(ctx, batch); err != nil {
			d.observer.EventsFailed(len(batch))
			d.logger.ErrorContext(ctx, "failed to deliver notifications",
				"error", err,
				"batch_size", len(batch),
			)
			continue
		}
		d.observer.EventsDelivered(len(batch))
	}
}
