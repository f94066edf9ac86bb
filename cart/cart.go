// Package cart holds the per-session shopping cart.
package cart

import "errors"

const MaxQuantity = 99

var ErrUnknownItem = errors.New("item not in cart")

type Line struct {
	MenuItemID uint   `json:"menu_item_id"`
	Name       string `json:"name"`
	Price      uint   `json:"price"`
	Quantity   uint   `json:"quantity"`
}

func (l Line) Subtotal() uint {
	return l.Price * l.Quantity
}

// Cart keeps lines in insertion order. The zero value is an empty cart.
type Cart struct {
	Items []Line `json:"items"`
}

func (c *Cart) index(menuItemID uint) int {
	for i, l := range c.Items {
		if l.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

// Add puts qty more of the item into the cart, refreshing its name and
// price. Quantities are capped at MaxQuantity.
func (c *Cart) Add(menuItemID uint, name string, price, qty uint) Line {
	if i := c.index(menuItemID); i >= 0 {
		l := &c.Items[i]
		l.Name = name
		l.Price = price
		l.Quantity = clamp(l.Quantity + qty)
		return *l
	}
	l := Line{MenuItemID: menuItemID, Name: name, Price: price, Quantity: clamp(qty)}
	c.Items = append(c.Items, l)
	return l
}

// Update sets the quantity of a line; zero removes it.
func (c *Cart) Update(menuItemID, qty uint) error {
	i := c.index(menuItemID)
	if i < 0 {
		return ErrUnknownItem
	}
	if qty == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	}
	c.Items[i].Quantity = clamp(qty)
	return nil
}

func (c *Cart) Remove(menuItemID uint) error {
	return c.Update(menuItemID, 0)
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) Total() uint {
	var total uint
	for _, l := range c.Items {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of units across all lines.
func (c *Cart) Count() uint {
	var n uint
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Merge adds every line of other into c.
func (c *Cart) Merge(other Cart) {
	for _, l := range other.Items {
		c.Add(l.MenuItemID, l.Name, l.Price, l.Quantity)
	}
}

func clamp(qty uint) uint {
	if qty > MaxQuantity {
		return MaxQuantity
	}
	return qty
}
