package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/artem13815/hr/booking/pkg/booking"
	"github.com/artem13815/hr/booking/pkg/logging"
)

type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts uint64
	BaseBackoff time.Duration
	// Timeout bounds a single delivery attempt.
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{Workers: 2, QueueSize: 256, MaxAttempts: 5, BaseBackoff: 200 * time.Millisecond, Timeout: 5 * time.Second}
}

type delivery struct {
	event     booking.Event
	publisher Publisher
}

// Dispatcher fans committed events out to publishers in the background.
// Enqueue never blocks the caller; failed deliveries are retried with
// exponential backoff and dropped, with an error log, after MaxAttempts.
type Dispatcher struct {
	publishers []Publisher
	opts       Options
	log        *logging.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan delivery

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ booking.EventSink = (*Dispatcher)(nil)

func NewDispatcher(opts Options, log *logging.Logger, publishers ...Publisher) *Dispatcher {
	def := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = def.QueueSize
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = def.BaseBackoff
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		publishers: publishers,
		opts:       opts,
		log:        log.Component("dispatcher"),
		queue:      make(chan delivery, opts.QueueSize),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

// Enqueue schedules e for every publisher.
func (d *Dispatcher) Enqueue(e booking.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("event dropped: dispatcher closed", "dedup_key", e.DedupKey())
		return
	}
	for _, p := range d.publishers {
		select {
		case d.queue <- delivery{event: e, publisher: p}:
		default:
			d.log.Error("event dropped: queue full", "publisher", p.Name(), "dedup_key", e.DedupKey())
		}
	}
}

// Close stops accepting events and waits for queued deliveries. When ctx
// expires first, in-flight retries are abandoned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for job := range d.queue {
		d.deliver(job)
	}
}

func (d *Dispatcher) deliver(job delivery) {
	b := retry.WithMaxRetries(d.opts.MaxAttempts-1, retry.NewExponential(d.opts.BaseBackoff))
	attempt := 0
	err := retry.Do(d.ctx, b, func(ctx context.Context) error {
		attempt++
		actx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
		if err := job.publisher.Publish(actx, job.event); err != nil {
			d.log.Warn("event delivery failed",
				"publisher", job.publisher.Name(),
				"dedup_key", job.event.DedupKey(),
				"attempt", attempt,
				"err", err,
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		d.log.Error("event dropped after retries",
			"publisher", job.publisher.Name(),
			"dedup_key", job.event.DedupKey(),
			"attempts", attempt,
			"err", err,
		)
	}
}
