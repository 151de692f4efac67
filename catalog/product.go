// Package catalog describes the products placed in the shopping scene.
package catalog

import (
	"fmt"
	"strings"

	"github.com/Adnanskuyy/ShoppingABTest/internal/validation"
)

// Type classifies a product's shape in the scene.
type Type string

const (
	// TypeCube is a cube-shaped product.
	TypeCube Type = "cube"
	// TypeSphere is a sphere-shaped product.
	TypeSphere Type = "sphere"
)

// ValidTypes returns all valid product types.
func ValidTypes() []Type {
	return []Type{TypeCube, TypeSphere}
}

// IsValid returns true if the type is a known value.
func (t Type) IsValid() bool {
	for _, valid := range ValidTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// Product is an item a participant can inspect and add to the cart.
// Name is the cart key and must be unique within a catalog.
type Product struct {
	Name        string `yaml:"name" json:"name"`
	Type        Type   `yaml:"type" json:"type"`
	Price       int    `yaml:"price" json:"price"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// PriceLabel formats the price in whole currency units.
func (p Product) PriceLabel() string {
	return fmt.Sprintf("$%d", p.Price)
}

func (p Product) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if !p.Type.IsValid() {
		return validation.FormatInvalidValueError(fmt.Errorf("%w: %q has unknown type", ErrInvalidProduct, p.Name), p.Type, ValidTypes())
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: %q has negative price", ErrInvalidProduct, p.Name)
	}
	return nil
}
