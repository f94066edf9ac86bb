package repository

import (
	"context"
	"fmt"
	"time"

	"restaurant/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NewBooking struct {
	UserID      uint
	BookingDate time.Time
	Persons     int
	// TableNumber 0 lets the store pick the lowest free table.
	TableNumber int
}

type AdminBooking struct {
	models.TableBooking
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// CreateBooking reserves a table for the slot starting at BookingDate.
// Two confirmed bookings of the same table never overlap.
func (s *Store) CreateBooking(ctx context.Context, in NewBooking) (models.TableBooking, error) {
	in.BookingDate = in.BookingDate.UTC()
	if in.TableNumber < 0 || in.TableNumber > s.tables {
		return models.TableBooking{}, ErrInvalidTable
	}

	var booking models.TableBooking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lockTables(tx); err != nil {
			return err
		}

		var busy []int
		err := tx.Model(&models.TableBooking{}).
			Where("status = ?", models.BookingConfirmed).
			Where("booking_date > ? AND booking_date < ?", in.BookingDate.Add(-s.bookingSlot), in.BookingDate.Add(s.bookingSlot)).
			Pluck("table_number", &busy).
			Error
		if err != nil {
			return fmt.Errorf("load busy tables: %w", err)
		}

		table, err := pickTable(s.tables, busy, in.TableNumber)
		if err != nil {
			return err
		}

		booking = models.TableBooking{
			UserID:      in.UserID,
			TableNumber: table,
			BookingDate: in.BookingDate,
			Persons:     in.Persons,
			Status:      models.BookingConfirmed,
		}
		if err := tx.Omit(clause.Associations).Create(&booking).Error; err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.TableBooking{}, err
	}
	return booking, nil
}

// lockTables holds the dining table rows until the transaction ends, so
// concurrent bookings check and claim tables one at a time.
func (s *Store) lockTables(tx *gorm.DB) error {
	if s.tables == 0 {
		return nil
	}
	rows := make([]models.DiningTable, s.tables)
	for i := range rows {
		rows[i].Number = i + 1
	}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("register dining tables: %w", err)
	}

	var locked []models.DiningTable
	err = tx.Clauses(tableLock(tx.Dialector.Name())...).
		Where("number <= ?", s.tables).
		Order("number").
		Find(&locked).
		Error
	if err != nil {
		return fmt.Errorf("lock dining tables: %w", err)
	}
	return nil
}

// tableLock is the row lock for dialect. sqlite has no FOR UPDATE and runs
// on a single connection, which already serializes the transactions.
func tableLock(dialect string) []clause.Expression {
	if dialect == "sqlite" {
		return nil
	}
	return []clause.Expression{clause.Locking{Strength: clause.LockingStrengthUpdate}}
}

func pickTable(tables int, busy []int, requested int) (int, error) {
	taken := make(map[int]bool, len(busy))
	for _, n := range busy {
		taken[n] = true
	}
	if requested > 0 {
		if taken[requested] {
			return 0, ErrTableTaken
		}
		return requested, nil
	}
	for n := 1; n <= tables; n++ {
		if !taken[n] {
			return n, nil
		}
	}
	return 0, ErrNoTableAvailable
}

func (s *Store) ListUserBookings(ctx context.Context, userID uint) ([]models.TableBooking, error) {
	var bookings []models.TableBooking
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("booking_date DESC").
		Find(&bookings).
		Error
	if err != nil {
		return nil, fmt.Errorf("list bookings of user %d: %w", userID, err)
	}
	return bookings, nil
}

func (s *Store) ListBookings(ctx context.Context) ([]AdminBooking, error) {
	var bookings []AdminBooking
	err := s.db.WithContext(ctx).
		Table("table_bookings").
		Select("table_bookings.*, users.name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = table_bookings.user_id").
		Order("table_bookings.booking_date DESC").
		Scan(&bookings).
		Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus) (models.TableBooking, error) {
	if !status.Valid() {
		return models.TableBooking{}, ErrInvalidStatus
	}

	var booking models.TableBooking
	db := s.db.WithContext(ctx)
	if err := db.First(&booking, id).Error; err != nil {
		return booking, notFound(err)
	}
	err := db.Model(&models.TableBooking{}).
		Where("id = ?", id).
		Update("status", status).
		Error
	if err != nil {
		return booking, fmt.Errorf("update booking %d status: %w", id, err)
	}
	booking.Status = status
	return booking, nil
}

// CancelUserBooking cancels a booking owned by userID. Bookings of other
// users are reported as not found.
func (s *Store) CancelUserBooking(ctx context.Context, userID, id uint) (models.TableBooking, error) {
	var booking models.TableBooking
	db := s.db.WithContext(ctx)
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&booking).Error
	if err != nil {
		return booking, notFound(err)
	}
	err = db.Model(&models.TableBooking{}).
		Where("id = ?", id).
		Update("status", models.BookingCancelled).
		Error
	if err != nil {
		return booking, fmt.Errorf("cancel booking %d: %w", id, err)
	}
	booking.Status = models.BookingCancelled
	return booking, nil
}
