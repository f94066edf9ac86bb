package models

// OrderItem keeps the unit price the menu item had when the order was placed.
type OrderItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderID    uint     `gorm:"not null;index" json:"order_id"`
	MenuItemID uint     `gorm:"not null;index" json:"menu_item_id"`
	MenuItem   MenuItem `json:"-"`
	Quantity   uint     `gorm:"not null" json:"quantity"`
	Price      uint     `gorm:"not null" json:"price"`
}
