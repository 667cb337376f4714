package push

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Channel is one live websocket connection to the push endpoint. Reads
// run on an internal pump; consumers drain Events until it closes.
type Channel struct {
	conn   *websocket.Conn
	log    *zap.Logger
	events chan Event
	cancel context.CancelFunc
}

// Dial connects to the push endpoint. The jar must be the same cookie
// jar the REST client uses, so the session cookie rides along on the
// websocket handshake.
func Dial(ctx context.Context, socketURL string, jar http.CookieJar, log *zap.Logger) (*Channel, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, _, err := websocket.Dial(ctx, socketURL, &websocket.DialOptions{
		HTTPClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("dial push channel: %w", err)
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	c := &Channel{
		conn:   conn,
		log:    log.Named("push"),
		events: make(chan Event, 64),
		cancel: cancel,
	}
	go c.readPump(pumpCtx)
	return c, nil
}

// Emit sends one event to the server.
func (c *Channel) Emit(ctx context.Context, eventType string, payload any) error {
	ev, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	if err := wsjson.Write(ctx, c.conn, ev); err != nil {
		return fmt.Errorf("emit %s: %w", eventType, err)
	}
	return nil
}

// Events returns the inbound event stream. The channel closes when the
// connection drops or Close is called.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Close tears the connection down. The read pump exits and the events
// channel closes.
func (c *Channel) Close() error {
	c.cancel()
	return c.conn.Close(websocket.StatusNormalClosure, "closing")
}

func (c *Channel) readPump(ctx context.Context) {
	defer close(c.events)
	for {
		var ev Event
		if err := wsjson.Read(ctx, c.conn, &ev); err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				c.log.Warn("push channel read failed", zap.Error(err))
			}
			return
		}
		select {
		case c.events <- ev:
		default:
			c.log.Warn("push event dropped", zap.String("type", ev.Type))
		}
	}
}
