package models

// All lists every model migrated at startup.
func All() []interface{} {
	return []interface{}{
		&User{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
		&DiningTable{},
		&TableBooking{},
		&Session{},
	}
}
