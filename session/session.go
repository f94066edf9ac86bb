// Package session keeps the server-side session records behind the
// session cookie.
package session

import (
	"context"
	"errors"
	"time"

	"restaurant/cart"
)

var ErrNotFound = errors.New("session not found")

// Identity is the authenticated user bound to a session.
type Identity struct {
	UserID  uint   `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	Cart      cart.Cart `json:"cart"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether a user is logged in on this session.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

func (s *Session) Identity() (Identity, bool) {
	if !s.Authenticated() {
		return Identity{}, false
	}
	return Identity{UserID: s.UserID, Name: s.Name, Email: s.Email, IsAdmin: s.IsAdmin}, true
}

func (s *Session) bind(id Identity) {
	s.UserID = id.UserID
	s.Name = id.Name
	s.Email = id.Email
	s.IsAdmin = id.IsAdmin
}

type Store interface {
	// Load returns ErrNotFound for unknown or expired sessions.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
