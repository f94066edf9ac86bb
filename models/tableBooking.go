package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	return s == BookingConfirmed || s == BookingCancelled
}

type TableBooking struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	User        User          `json:"-"`
	TableNumber int           `gorm:"not null" json:"table_number"`
	BookingDate time.Time     `gorm:"not null;index" json:"booking_date"`
	Persons     int           `gorm:"not null" json:"persons"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}
