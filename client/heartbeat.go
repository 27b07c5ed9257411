package client

import "context"

// The relay drives keepalive: it sends a ping status and expects a pong
// action back. The client never pings on its own.
func (c *Client) handlePing(ctx context.Context, conn Conn) error {
	if err := c.send(ctx, conn, NewPongReply()); err != nil {
		return err
	}
	c.logger.Debug("ping -> pong")
	return nil
}
