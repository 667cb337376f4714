package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/push"
)

// Transport is the live side of a conversation. Satisfied by
// push.Channel.
type Transport interface {
	Emit(ctx context.Context, eventType string, payload any) error
	Events() <-chan push.Event
	Close() error
}

// HistoryFetcher backfills past messages. Satisfied by api.ChatService.
type HistoryFetcher interface {
	History(ctx context.Context, targetUserID string) ([]domain.ChatMessage, error)
}

// Session is one open conversation. It joins the room, backfills history
// over REST, then appends pushed messages as they arrive. Sent messages
// are not echoed locally; they appear once the server routes them back,
// so the transcript always reflects what the server accepted. The
// transcript is in-memory only and dies with the session.
type Session struct {
	transport Transport
	self      domain.Profile
	target    domain.Profile
	bus       *bus.Bus
	log       *zap.Logger

	mu       sync.RWMutex
	messages []domain.ChatMessage

	cancel context.CancelFunc
	done   chan struct{}
}

// Open starts a conversation with the target user over an already-dialed
// transport: join the room, backfill, then pump pushed messages. The
// session owns the transport and closes it on Close.
func Open(ctx context.Context, transport Transport, history HistoryFetcher, self, target domain.Profile, b *bus.Bus, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		transport: transport,
		self:      self,
		target:    target,
		bus:       b,
		log:       log.Named("chat"),
		done:      make(chan struct{}),
	}

	if err := transport.Emit(ctx, push.EventJoinChat, push.JoinPayload{
		FirstName:    self.FirstName,
		UserID:       self.ID,
		TargetUserID: target.ID,
	}); err != nil {
		_ = transport.Close()
		return nil, fmt.Errorf("join conversation: %w", err)
	}

	past, err := history.History(ctx, target.ID)
	if err != nil {
		_ = transport.Close()
		return nil, fmt.Errorf("backfill conversation: %w", err)
	}
	s.messages = past

	pumpCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.pump(pumpCtx)
	return s, nil
}

// Target returns the conversation peer.
func (s *Session) Target() domain.Profile {
	return s.target
}

// Send emits one message. The transcript does not change here; the
// message shows up via the push channel round trip.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("message text is empty")
	}
	return s.transport.Emit(ctx, push.EventSendMessage, push.SendPayload{
		Nonce:        uuid.NewString(),
		FirstName:    s.self.FirstName,
		LastName:     s.self.LastName,
		UserID:       s.self.ID,
		TargetUserID: s.target.ID,
		Text:         text,
	})
}

// Messages returns a copy of the transcript, oldest first.
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Close tears the conversation down: the pump stops, the transport
// closes, the transcript is gone.
func (s *Session) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	err := s.transport.Close()
	<-s.done
	return err
}

func (s *Session) pump(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.transport.Events():
			if !ok {
				if s.bus != nil {
					s.bus.Publish("chat.closed", s.target.ID)
				}
				return
			}
			if ev.Type != push.EventMessageReceived {
				continue
			}
			var msg push.IncomingMessage
			if err := ev.Decode(&msg); err != nil {
				s.log.Warn("bad chat message", zap.Error(err))
				continue
			}
			s.append(domain.ChatMessage{
				SenderID:  msg.SenderID,
				FirstName: msg.FirstName,
				LastName:  msg.LastName,
				Text:      msg.Text,
			})
		}
	}
}

func (s *Session) append(m domain.ChatMessage) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	n := len(s.messages)
	s.mu.Unlock()
	if s.bus != nil {
		s.bus.Publish("chat.updated", n)
	}
}
