package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"restaurant/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Options struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Manager binds session records to the signed session cookie.
type Manager struct {
	store  Store
	signer *jwt.Signer
	opts   Options
	now    func() time.Time
}

func NewManager(store Store, signer *jwt.Signer, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "restaurant_sid"
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7 * 24 * time.Hour
	}
	return &Manager{store: store, signer: signer, opts: opts, now: time.Now}
}

func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// Load resolves the request's session. A missing, forged or expired
// cookie yields (nil, nil); only store failures are errors.
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	cookie, err := c.Cookie(m.opts.CookieName)
	if err != nil || cookie == "" {
		return nil, nil
	}
	id, err := m.signer.VerifyToken(cookie)
	if err != nil {
		return nil, nil
	}
	s, err := m.store.Load(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !s.ExpiresAt.After(m.now()) {
		return nil, nil
	}
	return s, nil
}

// New returns an unsaved anonymous session.
func (m *Manager) New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		ExpiresAt: m.now().Add(m.opts.MaxAge),
	}
}

// Save persists s, renews its expiry and (re)sends the cookie.
func (m *Manager) Save(c *gin.Context, s *Session) error {
	s.ExpiresAt = m.now().Add(m.opts.MaxAge)
	if err := m.store.Save(c.Request.Context(), s); err != nil {
		return err
	}
	token, err := m.signer.GenerateToken(s.ID, s.ExpiresAt)
	if err != nil {
		return err
	}
	m.setCookie(c, token, int(m.opts.MaxAge.Seconds()))
	return nil
}

// Login starts a fresh session for id, carrying over the cart of the
// current (possibly anonymous) session. The old record is removed so a
// pre-login session id never becomes authenticated.
func (m *Manager) Login(c *gin.Context, current *Session, id Identity) (*Session, error) {
	next := m.New()
	next.bind(id)
	if current != nil {
		next.Cart.Merge(current.Cart)
	}
	if err := m.Save(c, next); err != nil {
		return nil, err
	}
	if current != nil {
		// the new session is live already; a leftover record only lingers until it expires
		if err := m.store.Delete(c.Request.Context(), current.ID); err != nil {
			zap.L().Warn("delete pre-login session", zap.String("session_id", current.ID), zap.Error(err))
		}
	}
	return next, nil
}

// Destroy removes the session record and expires the cookie.
func (m *Manager) Destroy(c *gin.Context, s *Session) error {
	m.setCookie(c, "", -1)
	if s == nil {
		return nil
	}
	return m.store.Delete(c.Request.Context(), s.ID)
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, value, maxAge, "/", "", m.opts.Secure, true)
}

// Sweeper is implemented by stores that need expired rows removed.
type Sweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}
