// Package interact models scene objects the participant can focus and use.
package interact

import (
	"github.com/Adnanskuyy/ShoppingABTest/bus"
	"github.com/Adnanskuyy/ShoppingABTest/catalog"
	"github.com/Adnanskuyy/ShoppingABTest/signals"
)

// Interactable is anything in the scene that can be focused and used.
type Interactable interface {
	// Ref identifies the object in the scene.
	Ref() string
	// Prompt is the hint shown while the object is focused.
	Prompt() string
	// Interact uses the object and reports whether anything happened.
	Interact(by *Interactor) bool
}

// Product is a catalog product placed in the scene.
type Product struct {
	Item   catalog.Product
	Source string

	bus *bus.Bus
}

// NewProduct places item in the scene under the given source reference.
// An empty source defaults to the product name.
func NewProduct(b *bus.Bus, item catalog.Product, source string) *Product {
	if source == "" {
		source = item.Name
	}
	return &Product{Item: item, Source: source, bus: b}
}

// Ref returns the source reference.
func (p *Product) Ref() string {
	return p.Source
}

// Prompt returns the inspect hint.
func (p *Product) Prompt() string {
	return "[E] Inspect " + p.Item.Name
}

// Interact opens the product panel.
func (p *Product) Interact(*Interactor) bool {
	bus.Emit(p.bus, signals.ShowProductPanel, signals.ProductPanel{
		Product: p.Item,
		Source:  p.Source,
	})
	return true
}

// Scene builds one Product per catalog entry, in catalog order.
func Scene(b *bus.Bus, c *catalog.Catalog) []*Product {
	products := c.Products()
	scene := make([]*Product, 0, len(products))
	for _, item := range products {
		scene = append(scene, NewProduct(b, item, ""))
	}
	return scene
}
