package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Subscription is a client connection to one session's state stream
type Subscription struct {
	conn      *websocket.Conn
	sessionID string
}

// Subscribe dials the /ws endpoint of the server at baseURL for sessionID
func Subscribe(ctx context.Context, baseURL, sessionID string) (*Subscription, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("no session ID set")
	}

	wsURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	switch wsURL.Scheme {
	case "https", "wss":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = strings.TrimSuffix(wsURL.Path, "/") + "/ws"
	q := wsURL.Query()
	q.Set("session", sessionID)
	wsURL.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket connect to %s failed: %s", wsURL.Redacted(), resp.Status)
		}
		return nil, err
	}

	log.Printf("WebSocket connected for session %s", sessionID)
	return &Subscription{conn: conn, sessionID: sessionID}, nil
}

// SessionID returns the subscribed session
func (s *Subscription) SessionID() string {
	return s.sessionID
}

// Next blocks until the next message arrives. Frames that are not valid
// messages are logged and skipped.
func (s *Subscription) Next() (*Message, error) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return nil, err
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("WebSocket JSON parse error: %v", err)
			continue
		}
		return &msg, nil
	}
}

// Close sends a close frame and closes the connection
func (s *Subscription) Close() error {
	deadline := time.Now().Add(writeWait)
	s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return s.conn.Close()
}

// IsNormalClose reports whether err ends a stream the server closed cleanly
func IsNormalClose(err error) bool {
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		return false
	}
	switch closeErr.Code {
	case websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived:
		return true
	}
	return false
}
