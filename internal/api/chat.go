package api

import (
	"context"
	"net/http"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// ChatService fetches conversation history. Live delivery happens over the
// push channel; this REST endpoint only backfills past messages when a
// conversation opens.
type ChatService struct {
	client *Client
}

// History returns past messages with the given user, oldest first. The
// server embeds the sender profile in each message; it is flattened here.
func (s *ChatService) History(ctx context.Context, targetUserID string) ([]domain.ChatMessage, error) {
	var wire struct {
		Messages []struct {
			Sender struct {
				ID        string `json:"_id"`
				FirstName string `json:"firstName"`
				LastName  string `json:"lastName"`
			} `json:"senderId"`
			Text string `json:"text"`
		} `json:"messages"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/chat/"+targetUserID, nil, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]domain.ChatMessage, 0, len(wire.Messages))
	for _, m := range wire.Messages {
		out = append(out, domain.ChatMessage{
			SenderID:  m.Sender.ID,
			FirstName: m.Sender.FirstName,
			LastName:  m.Sender.LastName,
			Text:      m.Text,
		})
	}
	return out, nil
}
