package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// FeedService fetches pages of candidate profiles.
type FeedService struct {
	client *Client
}

// Page fetches one feed page for the given criteria. Empty filter fields
// are omitted from the query. The context should be the page generation's
// context so a superseded fetch can be cancelled mid-flight.
func (s *FeedService) Page(ctx context.Context, c domain.Criteria, limit int) ([]domain.Profile, error) {
	q := url.Values{}
	page := c.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if c.Search != "" {
		q.Set("search", c.Search)
	}
	if c.Genre != "" {
		q.Set("genre", c.Genre)
	}
	if c.Book != "" {
		q.Set("book", c.Book)
	}
	if c.Sort != domain.SortDefault {
		q.Set("sort", string(c.Sort))
	}

	var profiles []domain.Profile
	if err := s.client.do(ctx, http.MethodGet, "/feed", q, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
