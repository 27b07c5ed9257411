package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// handleFrame decodes one frame and acts on it. A non-nil error ends the session.
func (c *Client) handleFrame(ctx context.Context, conn Conn, text string) error {
	c.logger.Debug("frame received", slog.String("frame", text))

	evt, err := Decode(text)
	if err != nil {
		var unknown *UnknownEventError
		if errors.As(err, &unknown) && c.cfg.IgnoreUnknownEvents {
			c.recorder.FrameReceived("unknown")
			c.logger.Warn("ignoring unknown event type", slog.String("type", unknown.Type))
			return nil
		}
		c.recorder.FrameReceived("invalid")
		return fmt.Errorf("relay: decode frame: %w", err)
	}
	c.recorder.FrameReceived(evt.EventType())

	switch e := evt.(type) {
	case *StatusEvent:
		return c.handleStatus(ctx, conn, e)
	case *WebhookEvent:
		c.forwarder.Forward(ctx, e)
	}
	return nil
}

func (c *Client) handleStatus(ctx context.Context, conn Conn, e *StatusEvent) error {
	switch e.Status {
	case StatusAuthenticated:
		return c.handleAuthenticated(ctx, conn, e)
	case StatusPing:
		return c.handlePing(ctx, conn)
	case StatusSubscribed:
		c.logger.Info("subscribed", slog.String("message", e.Message))
	case StatusUnauthorized:
		// TODO: decide whether an unauthorized status should close the session.
		c.logger.Warn("relay reported unauthorized", slog.String("message", e.Message))
	default:
		c.logger.Debug("ignoring status", slog.String("status", e.Status), slog.String("message", e.Message))
	}
	return nil
}

func (c *Client) handleAuthenticated(ctx context.Context, conn Conn, e *StatusEvent) error {
	c.logger.Info("authenticated", slog.String("message", e.Message))
	if err := c.send(ctx, conn, NewSubscribeRequest(c.cfg.Bucket)); err != nil {
		return err
	}
	c.setState(StateSubscribed)
	c.logger.Info("subscribing to bucket", slog.String("bucket", c.cfg.Bucket))
	return nil
}
