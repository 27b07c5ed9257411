package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultURL is the hosted relay socket endpoint.
const DefaultURL = "wss://my.webhookrelay.com:443/v1/socket"

// ErrUnexpectedFrame is returned by Receive when the relay sends a non-text frame.
var ErrUnexpectedFrame = errors.New("relay: unexpected non-text frame")

// Conn is the text frame transport the state machine runs on.
type Conn interface {
	Send(text string) error
	Receive() (string, error)
	Close() error
}

// Session is a websocket connection to the relay.
type Session struct {
	ws *websocket.Conn
}

// Dial opens the relay socket. The handshake response status and header
// names are logged for diagnostics.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Session, error) {
	logger.Info("connecting", slog.String("url", url))

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay: dial %s: %w (status %s)", url, err, resp.Status)
		}
		return nil, fmt.Errorf("relay: dial %s: %w", url, err)
	}

	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	logger.Info("connected to the server",
		slog.String("status", resp.Status),
		slog.Any("headers", names),
	)

	return &Session{ws: ws}, nil
}

// Send writes one text frame.
func (s *Session) Send(text string) error {
	return s.ws.WriteMessage(websocket.TextMessage, []byte(text))
}

// Receive blocks until the next text frame arrives.
func (s *Session) Receive() (string, error) {
	mt, data, err := s.ws.ReadMessage()
	if err != nil {
		return "", err
	}
	if mt != websocket.TextMessage {
		return "", fmt.Errorf("%w: type %d", ErrUnexpectedFrame, mt)
	}
	return string(data), nil
}

// Close sends a close frame and tears down the connection. It is safe to
// call while another goroutine is blocked in Receive.
func (s *Session) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return s.ws.Close()
}
