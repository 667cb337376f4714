package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// Verdict is a swipe decision on a feed candidate.
type Verdict string

const (
	VerdictInterested Verdict = "interested"
	VerdictIgnored    Verdict = "ignored"
)

// Decision is a review outcome for a received request.
type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

// RequestsService sends swipe decisions and reviews received requests.
type RequestsService struct {
	client *Client
}

// Send records a swipe decision on a candidate.
func (s *RequestsService) Send(ctx context.Context, v Verdict, userID string) error {
	if v != VerdictInterested && v != VerdictIgnored {
		return fmt.Errorf("unknown verdict %q", v)
	}
	path := fmt.Sprintf("/request/send/%s/%s", v, userID)
	return s.client.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// Review accepts or rejects a received request.
func (s *RequestsService) Review(ctx context.Context, d Decision, requestID string) error {
	if d != DecisionAccepted && d != DecisionRejected {
		return fmt.Errorf("unknown decision %q", d)
	}
	path := fmt.Sprintf("/request/review/%s/%s", d, requestID)
	return s.client.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// Received lists requests awaiting the user's review.
func (s *RequestsService) Received(ctx context.Context) ([]domain.RequestEntry, error) {
	var entries []domain.RequestEntry
	if err := s.client.do(ctx, http.MethodGet, "/user/requests/received", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
