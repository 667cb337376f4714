package domain

import (
	"fmt"
	"strings"
)

// Profile is a user's public-facing reader identity as returned by the
// server. Profiles are immutable snapshots; the client never edits one in
// place, it replaces the whole value after a successful remote edit.
type Profile struct {
	ID             string         `json:"_id"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	PhotoURL       string         `json:"photoUrl,omitempty"`
	Age            int            `json:"age,omitempty"`
	Gender         string         `json:"gender,omitempty"`
	About          string         `json:"about,omitempty"`
	FavoriteBooks  []FavoriteBook `json:"favoriteBooks,omitempty"`
	FavoriteGenres []string       `json:"favoriteGenres,omitempty"`
}

// FavoriteBook is one entry in a profile's ordered favorite-book list.
type FavoriteBook struct {
	ID     string `json:"_id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
}

// DisplayName returns "First Last", falling back to whichever part is set.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.ID
	}
	return name
}

// RequestEntry is an inbound connection request awaiting review.
type RequestEntry struct {
	ID   string  `json:"_id"`
	From Profile `json:"fromUserId"`
}

// ChatMessage is one message in a conversation. Messages are append-only
// and ordered by arrival; the local list is discarded when the conversation
// view closes.
type ChatMessage struct {
	SenderID  string `json:"senderId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Text      string `json:"text"`
}

// SenderName returns the display name of the message sender.
func (m ChatMessage) SenderName() string {
	name := strings.TrimSpace(m.FirstName + " " + m.LastName)
	if name == "" {
		return m.SenderID
	}
	return name
}

// ValidateNewBook checks a favorite-book addition before any network call:
// the title must be non-empty and not already present (case-insensitive).
func ValidateNewBook(existing []FavoriteBook, title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("book title is required")
	}
	for _, b := range existing {
		if strings.EqualFold(b.Title, strings.TrimSpace(title)) {
			return fmt.Errorf("%q is already in your favorites", b.Title)
		}
	}
	return nil
}
