package models

// DiningTable has one row per bookable table. Booking transactions lock
// these rows so two of them cannot pick a table for the same slot.
type DiningTable struct {
	Number int `gorm:"primaryKey;autoIncrement:false"`
}
