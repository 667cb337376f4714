package api

import (
	"context"
	"net/http"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// ConnectionsService lists established connections.
type ConnectionsService struct {
	client *Client
}

// List fetches all of the user's connections.
func (s *ConnectionsService) List(ctx context.Context) ([]domain.Profile, error) {
	var profiles []domain.Profile
	if err := s.client.do(ctx, http.MethodGet, "/user/connections", nil, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
