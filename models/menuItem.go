package models

import "time"

type MenuItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Price       uint      `gorm:"not null" json:"price"`
	Category    string    `gorm:"not null;index" json:"category"`
	ImageURL    string    `json:"image_url"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}
