package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	internalstrings "github.com/Adnanskuyy/ShoppingABTest/internal/strings"
)

var (
	// ErrInvalidProduct indicates a catalog entry failed validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrDuplicateProduct indicates two entries share a name.
	ErrDuplicateProduct = errors.New("duplicate product")
	// ErrProductNotFound indicates a lookup by name failed.
	ErrProductNotFound = errors.New("product not found")
)

// Catalog is the ordered set of products in the scene.
type Catalog struct {
	products []Product
	byName   map[string]int
}

type catalogFile struct {
	Products []Product `yaml:"products"`
}

// New validates products and builds a catalog preserving their order.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byName:   make(map[string]int, len(products)),
	}
	for _, product := range products {
		product.Name = internalstrings.NormalizeWhitespace(product.Name)
		if err := product.validate(); err != nil {
			return nil, err
		}
		key := internalstrings.NormalizeKey(product.Name)
		if _, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProduct, product.Name)
		}
		c.byName[key] = len(c.products)
		c.products = append(c.products, product)
	}
	return c, nil
}

// Default returns the two-product scene used when no catalog is configured.
func Default() *Catalog {
	c, err := New([]Product{
		{Name: "Cube", Type: TypeCube, Price: 5, Description: "A plain cube on the left shelf."},
		{Name: "Sphere", Type: TypeSphere, Price: 8, Description: "A plain sphere on the right shelf."},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a YAML catalog file. An empty path returns Default.
func Load(path string) (*Catalog, error) {
	if internalstrings.IsBlank(path) {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("parse catalog: no products defined")
	}
	return New(file.Products)
}

// Products returns the products in catalog order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	return append([]Product(nil), c.products...)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Lookup finds a product by name, ignoring case and extra whitespace.
func (c *Catalog) Lookup(name string) (Product, error) {
	if c != nil {
		if idx, ok := c.byName[internalstrings.NormalizeKey(name)]; ok {
			return c.products[idx], nil
		}
	}
	return Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, name)
}
