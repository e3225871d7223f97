package resilient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/modelscout/core"
)

const (
	// DefaultCallTimeout bounds each attempt of a call.
	DefaultCallTimeout = 60 * time.Second

	// DefaultProbeTimeout bounds the warm-up probe.
	DefaultProbeTimeout = 5 * time.Second
)

// Prober wakes a sleeping backend. Its result is ignored.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Probe(ctx context.Context) error {
	return f(ctx)
}

// Client runs backend calls through the cold-start protocol.
// It is safe for concurrent use; each Do call has its own state.
type Client struct {
	prober       Prober
	callTimeout  time.Duration
	probeTimeout time.Duration
	observer     Observer
	logger       *slog.Logger
	probes       sync.WaitGroup
}

// Option configures a Client.
type Option func(*Client) error

// WithProber sets the warm-up probe. Without one, a cold start is still
// retried once but nothing is probed.
func WithProber(p Prober) Option {
	return func(c *Client) error {
		if p == nil {
			return ErrProberRequired
		}
		c.prober = p
		return nil
	}
}

// WithCallTimeout bounds each attempt.
// Default is DefaultCallTimeout.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return ErrInvalidTimeout
		}
		c.callTimeout = d
		return nil
	}
}

// WithProbeTimeout bounds the warm-up probe.
// Default is DefaultProbeTimeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return ErrInvalidTimeout
		}
		c.probeTimeout = d
		return nil
	}
}

// WithObserver receives every state transition.
func WithObserver(o Observer) Option {
	return func(c *Client) error {
		c.observer = o
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "resilient-client")
		return nil
	}
}

// NewClient creates a new client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		callTimeout:  DefaultCallTimeout,
		probeTimeout: DefaultProbeTimeout,
		logger:       slog.Default().With("component", "resilient-client"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// run tracks the state of a single Do call.
type run struct {
	c     *Client
	state State
}

func (r *run) to(next State, err error) {
	t := Transition{From: r.state, To: next, Err: err}
	r.state = next
	r.c.logger.Debug("state transition", "from", t.From, "to", t.To, "err", err)
	if r.c.observer != nil {
		r.c.observer(t)
	}
}

// Do invokes call, retrying it once after a warm-up probe when the first
// attempt fails with a cold-start signature. A retry that also looks cold
// yields a *core.ColdStartError. Other failures are returned unchanged.
func (c *Client) Do(ctx context.Context, call func(ctx context.Context) error) error {
	r := &run{c: c, state: Idle}

	r.to(Calling, nil)
	err := c.attempt(ctx, call)
	if err == nil {
		r.to(Success, nil)
		return nil
	}
	if ctx.Err() != nil || Classify(err) != FailureColdStart {
		r.to(Failed, err)
		return err
	}

	r.to(ColdStartDetected, err)
	c.logger.Info("backend looks cold, warming up", "err", err)

	r.to(WarmingUp, nil)
	c.warmUp(ctx)

	r.to(Retrying, nil)
	err = c.attempt(ctx, call)
	if err == nil {
		r.to(Success, nil)
		return nil
	}
	if ctx.Err() == nil && Classify(err) == FailureColdStart {
		err = &core.ColdStartError{Err: err}
	}
	r.to(Failed, err)
	return err
}

// Call is Do for calls that produce a value.
func Call[T any](ctx context.Context, c *Client, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := c.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Wait blocks until background warm-up probes have finished.
func (c *Client) Wait() {
	c.probes.Wait()
}

func (c *Client) attempt(ctx context.Context, call func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return call(ctx)
}

// warmUp fires the probe without waiting for it. The probe outlives the
// caller's cancellation so an abandoned query still wakes the backend.
func (c *Client) warmUp(ctx context.Context) {
	if c.prober == nil {
		return
	}
	probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.probeTimeout)
	c.probes.Add(1)
	go func() {
		defer c.probes.Done()
		defer cancel()
		if err := c.prober.Probe(probeCtx); err != nil {
			c.logger.Debug("warm-up probe failed", "err", err)
		}
	}()
}
