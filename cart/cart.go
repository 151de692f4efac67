// Package cart holds the participant's shopping cart.
package cart

import (
	"maps"

	"github.com/Adnanskuyy/ShoppingABTest/bus"
	"github.com/Adnanskuyy/ShoppingABTest/signals"
)

// Line is one product and its quantity.
type Line = signals.CartLine

// Cart maps product names to quantities. Quantities start at one and only
// grow; there is no removal.
type Cart struct {
	bus   *bus.Bus
	items map[string]int
	order []string
	total int
}

// New creates an empty cart that announces changes on b. A nil bus is
// allowed.
func New(b *bus.Bus) *Cart {
	return &Cart{
		bus:   b,
		items: make(map[string]int),
	}
}

// Add increments the quantity of name and publishes the updated cart.
func (c *Cart) Add(name string) {
	if _, ok := c.items[name]; !ok {
		c.order = append(c.order, name)
	}
	c.items[name]++
	c.total++

	bus.Emit(c.bus, signals.CartUpdated, signals.CartUpdate{
		Items: c.Items(),
		Lines: c.Lines(),
		Added: name,
		Total: c.total,
	})
}

// Items returns a copy of the name to quantity mapping.
func (c *Cart) Items() map[string]int {
	return maps.Clone(c.items)
}

// Lines returns the items in the order they were first added.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.order))
	for _, name := range c.order {
		lines = append(lines, Line{Name: name, Quantity: c.items[name]})
	}
	return lines
}

// Quantity returns the quantity of name, or zero.
func (c *Cart) Quantity(name string) int {
	return c.items[name]
}

// Total returns the sum of all quantities.
func (c *Cart) Total() int {
	return c.total
}
