package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

// Dispatcher sends in the background. It refuses work up front when too many
// sends are in flight, when the breaker is open, or after Close.
type Dispatcher struct {
	next    Sender
	log     zerolog.Logger
	sem     *semaphore.Weighted
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[struct{}]

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

type DispatcherConfig struct {
	MaxInFlight int64
	Timeout     time.Duration
	// consecutive failures that open the breaker
	TripAfter uint32
	// how long the breaker stays open before probing again
	OpenFor time.Duration
}

func NewDispatcher(next Sender, log zerolog.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 1
	}
	if cfg.TripAfter == 0 {
		cfg.TripAfter = 5
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 30 * time.Second
	}
	logger := log.With().Str("component", "notify").Logger()
	return &Dispatcher{
		next:    next,
		log:     logger,
		sem:     semaphore.NewWeighted(cfg.MaxInFlight),
		timeout: cfg.Timeout,
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "notify",
			MaxRequests: 1,
			Timeout:     cfg.OpenFor,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.TripAfter
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("notification breaker state changed")
			},
		}),
	}
}

func (d *Dispatcher) Send(ctx context.Context, recipient, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.breaker.State() == gobreaker.StateOpen {
		return ErrUnavailable
	}
	if !d.sem.TryAcquire(1) {
		return ErrUnavailable
	}
	d.wg.Add(1)
	go d.deliver(context.WithoutCancel(ctx), recipient, token)
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, recipient, token string) {
	defer d.wg.Done()
	defer d.sem.Release(1)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	_, err := d.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, d.next.Send(ctx, recipient, token)
	})
	if err != nil {
		d.log.Error().Err(err).Str("recipient", recipient).Msg("failed to deliver verification token")
	}
}

// Close stops accepting sends and waits for the in-flight ones, or for ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
