package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/shared"
)

const (
	DefaultQuota      = 150
	DefaultWindow     = 10 * time.Second
	DefaultRetryDelay = 2 * time.Second
	DefaultGap        = 20 * time.Millisecond
	DefaultMinWait    = 100 * time.Millisecond
	DefaultMaxRetries = 3
)

// Operation is a unit of work admitted by a [Dispatcher].
//
// A nil value with a nil error is a valid "no data" result.
type Operation func(ctx context.Context) (any, error)

// Clock abstracts time so the loop can be driven deterministically.
//
// Sleep returns early when ctx is done; callers re-check state afterwards.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Options configures a [Dispatcher]. Zero values fall back to the Default* constants.
type Options struct {
	Quota      int           // operations admitted per window
	Window     time.Duration // rolling window length
	RetryDelay time.Duration // backoff base for rate-limited retries
	Gap        time.Duration // pause between dequeues while work is pending; negative disables
	MinWait    time.Duration // floor for quota waits
	MaxRetries int           // retry budget used by Submit; negative means none
	Logger     *log.Logger
	Clock      Clock
}

// Status is a point-in-time snapshot of a [Dispatcher].
type Status struct {
	QueueLength  int
	RequestCount int
	Processing   bool
	State        State
	WindowEnd    time.Time
}

type entry struct {
	op         Operation
	future     *Future
	remaining  int
	maxRetries int
}

// attempt is 1 for the first retry; for a budget of 3 it equals 4 - remaining.
func (e *entry) attempt() int {
	return e.maxRetries - e.remaining + 1
}

type window struct {
	count int
	end   time.Time
}

func (w *window) expired(now time.Time) bool {
	return !now.Before(w.end)
}

func (w *window) reset(now time.Time, length time.Duration) {
	w.count = 0
	w.end = now.Add(length)
}

// Dispatcher serializes operations through a single processing loop, admitting at most
// Quota operations per rolling Window and retrying rate-limited failures with backoff.
type Dispatcher struct {
	opts   Options
	clock  Clock
	logger *log.Logger
	ctx    context.Context

	mu     sync.Mutex
	queue  []*entry
	win    window
	state  State
	closed bool

	wg sync.WaitGroup
}

// New creates an idle [Dispatcher]. The first window ends one Window from now.
func New(opts Options) *Dispatcher {
	if opts.Quota <= 0 {
		opts.Quota = DefaultQuota
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Gap < 0 {
		opts.Gap = 0
	} else if opts.Gap == 0 {
		opts.Gap = DefaultGap
	}
	if opts.MinWait <= 0 {
		opts.MinWait = DefaultMinWait
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}

	d := &Dispatcher{
		opts:   opts,
		clock:  opts.Clock,
		logger: shared.WithLogger(opts.Logger, "component", "dispatcher"),
		ctx:    context.Background(),
		state:  Idle,
	}
	d.win.end = d.clock.Now().Add(opts.Window)
	return d
}

// Submit enqueues op at the tail with the default retry budget.
func (d *Dispatcher) Submit(op Operation) *Future {
	return d.SubmitWithRetries(op, d.opts.MaxRetries)
}

// SubmitWithRetries enqueues op at the tail with an explicit retry budget.
//
// It never blocks on the operation; every outcome, including rejection, is delivered through the [Future].
func (d *Dispatcher) SubmitWithRetries(op Operation, maxRetries int) *Future {
	f := newFuture()
	if op == nil {
		f.complete(nil, fmt.Errorf("%w: nil operation", shared.ErrInvalidInput))
		return f
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		f.complete(nil, ErrClosed)
		return f
	}

	d.queue = append(d.queue, &entry{op: op, future: f, remaining: maxRetries, maxRetries: maxRetries})

	start := d.state == Idle
	d.fire(Enqueue)
	if start {
		d.wg.Add(1)
		go d.run()
	}

	return f
}

// Do submits op and waits for its outcome. ok is false when the operation
// degraded to the "no data" result; err is non-nil only for authorization
// failures, a closed dispatcher, or an abandoned wait.
func Do[T any](ctx context.Context, d *Dispatcher, op func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	f := d.Submit(func(ctx context.Context) (any, error) {
		return op(ctx)
	})

	val, err := f.Wait(ctx)
	if err != nil || val == nil {
		return zero, false, err
	}

	v, ok := val.(T)
	return v, ok, nil
}

// Status returns a snapshot of the queue and the current window.
func (d *Dispatcher) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Status{
		QueueLength:  len(d.queue),
		RequestCount: d.win.count,
		Processing:   d.state != Idle,
		State:        d.state,
		WindowEnd:    d.win.end,
	}
}

// State returns the loop's current state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Close rejects further submissions and waits until queued work has been settled.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
}

// fire applies e to the current state. Callers hold d.mu.
func (d *Dispatcher) fire(e Event) {
	next, err := Transition(d.state, e)
	if err != nil {
		d.logger.Error("dropping event", "error", err)
		return
	}
	d.state = next
}

func (d *Dispatcher) transition(e Event) {
	d.mu.Lock()
	d.fire(e)
	d.mu.Unlock()
}

// run is the processing loop. At most one instance is alive at a time: it is
// started by the submission that finds the dispatcher Idle and exits after
// moving back to Idle under the same lock.
func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.fire(Drained)
			d.mu.Unlock()
			return
		}

		now := d.clock.Now()
		if d.win.expired(now) {
			d.win.reset(now, d.opts.Window)
			d.fire(WindowExpired)
		}

		if d.win.count >= d.opts.Quota {
			wait := max(d.win.end.Sub(now), d.opts.MinWait)
			count := d.win.count
			d.fire(QuotaExceeded)
			d.mu.Unlock()

			d.logger.Info("quota reached, waiting for window", "count", count, "quota", d.opts.Quota, "wait", wait)
			d.clock.Sleep(d.ctx, wait)
			continue
		}

		e := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.win.count++
		d.fire(Admitted)
		d.mu.Unlock()

		val, err := d.execute(e)
		d.settle(e, val, err)

		d.mu.Lock()
		if len(d.queue) == 0 {
			d.fire(Drained)
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()

		d.clock.Sleep(d.ctx, d.opts.Gap)
		d.transition(Resumed)
	}
}

// execute runs the operation, turning a panic into an ordinary failure.
func (d *Dispatcher) execute(e *entry) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation panicked: %v", r)
		}
	}()
	return e.op(d.ctx)
}

// settle routes an outcome: resolve, retry at the head of the queue, or reject.
func (d *Dispatcher) settle(e *entry, val any, err error) {
	if err == nil {
		d.transition(Success)
		e.future.complete(val, nil)
		return
	}

	ev := classify(err)
	switch {
	case ev == RateLimited && e.remaining > 0:
		delay := d.opts.RetryDelay * time.Duration(e.attempt())
		d.transition(RateLimited)
		d.logger.Warn("rate limited, retrying", "delay", delay, "remaining", e.remaining)

		d.clock.Sleep(d.ctx, delay)
		e.remaining--

		d.mu.Lock()
		d.queue = append([]*entry{e}, d.queue...)
		d.win.reset(d.clock.Now(), d.opts.Window)
		d.fire(Requeued)
		d.mu.Unlock()
	case ev == Unauthorized:
		d.transition(Unauthorized)
		d.logger.Error("credential rejected", "error", err)
		e.future.complete(nil, &AuthorizationError{Err: err})
	default:
		d.transition(OtherFailure)
		if ev == RateLimited {
			d.logger.Warn("rate limited, retries exhausted", "attempts", e.maxRetries+1)
		} else {
			d.logger.Warn("request failed", "error", err)
		}
		e.future.complete(nil, nil)
	}
}
