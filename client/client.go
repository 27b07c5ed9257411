package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// State is the position of the client in the auth and subscribe handshake.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticating
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateSubscribed:
		return "subscribed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config holds everything the client needs to reach and subscribe to the relay.
type Config struct {
	URL         string
	Credentials Credentials
	Bucket      string

	// IgnoreUnknownEvents skips frames with an unrecognized type instead of
	// failing the session. Malformed frames are always fatal.
	IgnoreUnknownEvents bool
}

// Recorder receives counters for relay traffic.
type Recorder interface {
	FrameReceived(eventType string)
	MessageSent(action string)
	ForwardCompleted(outcome string, latency time.Duration, bytes int64)
}

type nopRecorder struct{}

func (nopRecorder) FrameReceived(string)                         {}
func (nopRecorder) MessageSent(string)                           {}
func (nopRecorder) ForwardCompleted(string, time.Duration, int64) {}

// WebhookForwarder replays a webhook event. *Forwarder is the production implementation.
type WebhookForwarder interface {
	Forward(ctx context.Context, evt *WebhookEvent) Result
}

// DialFunc opens the transport to the relay.
type DialFunc func(ctx context.Context, url string, logger *slog.Logger) (Conn, error)

// Client runs the relay session: authenticate, subscribe, answer pings and
// forward webhooks one at a time.
type Client struct {
	cfg       Config
	dial      DialFunc
	forwarder WebhookForwarder
	recorder  Recorder
	logger    *slog.Logger
	state     atomic.Int32
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithForwarder(f WebhookForwarder) Option {
	return func(c *Client) { c.forwarder = f }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func WithDialer(d DialFunc) Option {
	return func(c *Client) { c.dial = d }
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Credentials.Key == "" || cfg.Credentials.Secret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}

	c := &Client{
		cfg:      cfg,
		dial:     dialSession,
		recorder: nopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.forwarder == nil {
		c.forwarder = NewForwarder(
			WithForwarderLogger(c.logger),
			WithForwarderRecorder(c.recorder),
		)
	}
	return c, nil
}

func dialSession(ctx context.Context, url string, logger *slog.Logger) (Conn, error) {
	return Dial(ctx, url, logger)
}

// State reports the current handshake state. Safe for concurrent use.
func (c *Client) State() State {
	return State(c.state.Load())
}

func (c *Client) setState(s State) {
	if old := State(c.state.Swap(int32(s))); old != s {
		c.logger.Debug("state changed", slog.String("from", old.String()), slog.String("to", s.String()))
	}
}

// Run connects, authenticates and processes frames until a fatal error
// occurs or ctx is cancelled. It never returns nil: on cancellation it
// returns ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	c.setState(StateConnecting)

	conn, err := c.dial(ctx, c.cfg.URL, c.logger)
	if err != nil {
		return err
	}

	// Closing the connection is the only way to unblock Receive.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		if stop() {
			_ = conn.Close()
		}
	}()

	if err := c.send(ctx, conn, NewAuthRequest(c.cfg.Credentials)); err != nil {
		return err
	}
	c.setState(StateAuthenticating)

	for {
		text, err := conn.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("relay: receive: %w", err)
		}

		if err := c.handleFrame(ctx, conn, text); err != nil {
			return err
		}
	}
}

// send writes one control message. A write that fails because ctx was
// cancelled and the connection closed under it reports ctx.Err().
func (c *Client) send(ctx context.Context, conn Conn, req Request) error {
	text, err := Encode(req)
	if err != nil {
		return err
	}
	if err := conn.Send(text); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("relay: send %s: %w", req.action(), err)
	}
	c.recorder.MessageSent(req.action())
	c.logger.Debug("message sent", slog.String("action", req.action()))
	return nil
}
