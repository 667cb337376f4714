package chat

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/push"
)

// Dialer opens conversations, one fresh push connection per session.
type Dialer struct {
	socketURL string
	jar       http.CookieJar
	history   HistoryFetcher
	bus       *bus.Bus
	log       *zap.Logger
}

// NewDialer creates a conversation dialer.
func NewDialer(socketURL string, jar http.CookieJar, history HistoryFetcher, b *bus.Bus, log *zap.Logger) *Dialer {
	return &Dialer{
		socketURL: socketURL,
		jar:       jar,
		history:   history,
		bus:       b,
		log:       log,
	}
}

// Open dials the push endpoint and opens a session with the target user.
func (d *Dialer) Open(ctx context.Context, self, target domain.Profile) (*Session, error) {
	ch, err := push.Dial(ctx, d.socketURL, d.jar, d.log)
	if err != nil {
		return nil, err
	}
	return Open(ctx, ch, d.history, self, target, d.bus, d.log)
}
