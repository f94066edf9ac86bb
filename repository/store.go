// Package repository is the data access layer. Every method is a single
// parameterized query or one transaction.
package repository

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrEmptyOrder          = errors.New("order has no items")
	ErrInvalidQuantity     = errors.New("item quantity must be positive")
	ErrMenuItemUnavailable = errors.New("menu item unavailable")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrNoTableAvailable    = errors.New("no table available")
	ErrTableTaken          = errors.New("table already booked")
	ErrInvalidTable        = errors.New("table number out of range")
	ErrAmountTooLarge      = errors.New("order amount out of range")
)

// MaxAmount is the largest price or order total the store accepts. The
// databases keep amounts in signed 64-bit columns.
const MaxAmount = math.MaxInt64

type Store struct {
	db          *gorm.DB
	tables      int
	bookingSlot time.Duration
	now         func() time.Time
}

type Option func(*Store)

// WithTables sets how many tables the booking assignment can hand out.
func WithTables(n int) Option {
	return func(s *Store) { s.tables = n }
}

// WithBookingSlot sets how long a booking occupies its table.
func WithBookingSlot(d time.Duration) Option {
	return func(s *Store) { s.bookingSlot = d }
}

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:          db,
		tables:      10,
		bookingSlot: 2 * time.Hour,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
