package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/mayank-pillai-99/bookconnect/internal/api"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/feed"
	"github.com/mayank-pillai-99/bookconnect/internal/session"
	"github.com/mayank-pillai-99/bookconnect/internal/state"
	"github.com/mayank-pillai-99/bookconnect/internal/status"
)

// Service coordinates session transitions with the remote API and the
// local stores. The TUI and the CLI both drive the client through it.
type Service struct {
	client     *api.Client
	jar        *session.Jar
	machine    *status.Machine
	container  *state.Container
	controller *feed.Controller
	log        *zap.Logger
	filters    domain.Criteria
}

// NewService wires the session coordinator.
func NewService(client *api.Client, jar *session.Jar, machine *status.Machine, container *state.Container, controller *feed.Controller, log *zap.Logger, filters domain.Criteria) *Service {
	return &Service{
		client:     client,
		jar:        jar,
		machine:    machine,
		container:  container,
		controller: controller,
		log:        log.Named("service"),
		filters:    filters,
	}
}

// Client exposes the underlying API client for direct calls that do not
// touch session state, like profile edits.
func (s *Service) Client() *api.Client {
	return s.client
}

// Probe checks whether the persisted cookie still names a live session.
// Called once at startup.
func (s *Service) Probe(ctx context.Context) {
	_ = s.machine.Transition(status.Connecting)
	profile, err := s.client.Profile.View(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			s.log.Info("no live session, login required")
			_ = s.machine.Transition(status.AuthRequired)
			return
		}
		s.log.Error("session probe failed", zap.Error(err))
		_ = s.machine.Transition(status.Error)
		return
	}
	s.ready(profile)
}

// Login authenticates and brings the session up.
func (s *Service) Login(ctx context.Context, email, password string) error {
	_ = s.machine.Transition(status.Connecting)
	profile, err := s.client.Auth.Login(ctx, email, password)
	if err != nil {
		_ = s.machine.Transition(status.AuthRequired)
		return err
	}
	s.ready(profile)
	return nil
}

// Signup creates an account and brings the session up.
func (s *Service) Signup(ctx context.Context, params api.SignupParams) error {
	_ = s.machine.Transition(status.Connecting)
	profile, err := s.client.Auth.Signup(ctx, params)
	if err != nil {
		_ = s.machine.Transition(status.AuthRequired)
		return err
	}
	s.ready(profile)
	return nil
}

// Logout drops the server session, the cookie file and all local state.
func (s *Service) Logout(ctx context.Context) error {
	err := s.client.Auth.Logout(ctx)
	if err != nil {
		s.log.Warn("server logout failed, clearing local session anyway", zap.Error(err))
	}
	s.jar.Clear()
	s.controller.Reset()
	s.container.Reset()
	_ = s.machine.Transition(status.AuthRequired)
	return err
}

// RefreshInbox refetches the received-requests list.
func (s *Service) RefreshInbox(ctx context.Context) error {
	entries, err := s.client.Requests.Received(ctx)
	if err != nil {
		return err
	}
	s.container.Inbox.Set(entries)
	return nil
}

// RefreshConnections refetches the connections list.
func (s *Service) RefreshConnections(ctx context.Context) error {
	list, err := s.client.Connections.List(ctx)
	if err != nil {
		return err
	}
	s.container.Connections.Set(list)
	return nil
}

// ready stores the profile, marks the session live and loads the feed
// with the startup filters.
func (s *Service) ready(profile domain.Profile) {
	s.container.SetProfile(profile)
	_ = s.machine.Transition(status.Ready)
	s.controller.Load(s.filters)
	s.log.Info("session ready",
		zap.String("user_id", profile.ID),
		zap.String("name", profile.DisplayName()),
	)
}
