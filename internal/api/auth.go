package api

import (
	"context"
	"net/http"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// AuthService handles login, signup and logout. A successful login sets
// the session cookie through the client's jar as a side effect.
type AuthService struct {
	client *Client
}

// SignupParams are the fields required to create an account.
type SignupParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	EmailID   string `json:"emailId"`
	Password  string `json:"password"`
}

// Login authenticates with email and password and returns the profile of
// the logged-in user.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Profile, error) {
	body := map[string]string{"emailId": email, "password": password}
	var p domain.Profile
	if err := s.client.do(ctx, http.MethodPost, "/login", nil, body, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// Signup creates a new account. The server logs the new user in as part
// of signup, so the session cookie is set on success.
func (s *AuthService) Signup(ctx context.Context, params SignupParams) (domain.Profile, error) {
	var p domain.Profile
	if err := s.client.do(ctx, http.MethodPost, "/signup", nil, params, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// Logout invalidates the server-side session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}
