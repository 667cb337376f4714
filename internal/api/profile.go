package api

import (
	"context"
	"net/http"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// ProfileService manages the logged-in user's own profile.
type ProfileService struct {
	client *Client
}

// EditParams are the editable profile fields. Zero-valued fields are
// omitted from the request and left unchanged by the server.
type EditParams struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	Age       int    `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	About     string `json:"about,omitempty"`
}

// View fetches the logged-in user's profile. A 401 here is the normal
// "no saved session" signal at startup.
func (s *ProfileService) View(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	if err := s.client.do(ctx, http.MethodGet, "/profile/view", nil, nil, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// Edit updates basic profile fields and returns the updated profile.
func (s *ProfileService) Edit(ctx context.Context, params EditParams) (domain.Profile, error) {
	var p domain.Profile
	if err := s.client.do(ctx, http.MethodPatch, "/profile/edit", nil, params, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// Delete removes the account permanently.
func (s *ProfileService) Delete(ctx context.Context) error {
	return s.client.do(ctx, http.MethodDelete, "/profile/delete", nil, nil, nil)
}

// AddBook appends a favorite book and returns the updated profile, whose
// book list now carries the server-assigned ID for the new entry.
func (s *ProfileService) AddBook(ctx context.Context, title, author string) (domain.Profile, error) {
	body := map[string]string{"title": title, "author": author}
	var p domain.Profile
	if err := s.client.do(ctx, http.MethodPost, "/profile/books/add", nil, body, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// RemoveBook removes a favorite book by its ID and returns the updated
// profile.
func (s *ProfileService) RemoveBook(ctx context.Context, bookID string) (domain.Profile, error) {
	body := map[string]string{"bookId": bookID}
	var p domain.Profile
	if err := s.client.do(ctx, http.MethodDelete, "/profile/books/remove", nil, body, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// SetGenres replaces the favorite-genre list and returns the updated
// profile. Genre labels are validated locally before calling.
func (s *ProfileService) SetGenres(ctx context.Context, genres []string) (domain.Profile, error) {
	if err := domain.ValidateGenres(genres); err != nil {
		return domain.Profile{}, err
	}
	body := map[string][]string{"genres": genres}
	var p domain.Profile
	if err := s.client.do(ctx, http.MethodPatch, "/profile/genres", nil, body, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}
