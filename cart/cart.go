package cart

import (
	"errors"
	"fmt"
	"math"
)

type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// ProductRef is the product snapshot carried by a cart line.
type ProductRef struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	CurrentPrice    float64  `json:"currentPrice"`
	OriginalPrice   *float64 `json:"originalPrice,omitempty"`
	Images          []string `json:"images"`
	InStock         bool     `json:"inStock"`
	AvailableColors []Color  `json:"availableColors,omitempty"`
	AvailableSizes  []string `json:"availableSizes,omitempty"`
}

// Variant selects a color and size. Empty fields only match empty fields.
type Variant struct {
	Color string
	Size  string
}

type Item struct {
	Product       ProductRef `json:"product"`
	Quantity      int        `json:"quantity"`
	SelectedColor string     `json:"selectedColor,omitempty"`
	SelectedSize  string     `json:"selectedSize,omitempty"`
}

func (i Item) matches(productID string, v Variant) bool {
	return i.Product.ID == productID && i.SelectedColor == v.Color && i.SelectedSize == v.Size
}

// LineTotal is unit price times quantity, rounded to cents.
func (i Item) LineTotal() float64 {
	return RoundCents(i.Product.CurrentPrice * float64(i.Quantity))
}

type Cart struct {
	Items      []Item  `json:"items"`
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (c Cart) indexOf(productID string, v Variant) int {
	for i, item := range c.Items {
		if item.matches(productID, v) {
			return i
		}
	}
	return -1
}

func (c Cart) cloneItems() []Item {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return items
}

// withTotals recomputes the derived totals from the lines.
func (c Cart) withTotals() Cart {
	if c.Items == nil {
		c.Items = []Item{}
	}
	c.TotalItems = 0
	total := 0.0
	for _, item := range c.Items {
		c.TotalItems += item.Quantity
		total += item.Product.CurrentPrice * float64(item.Quantity)
	}
	c.TotalPrice = RoundCents(total)
	return c
}

// Add increments the matching line or appends a new one.
func (c Cart) Add(product ProductRef, quantity int, v Variant) Cart {
	if quantity <= 0 {
		return c.withTotals()
	}
	items := c.cloneItems()
	if idx := c.indexOf(product.ID, v); idx >= 0 {
		items[idx].Quantity += quantity
	} else {
		items = append(items, Item{
			Product:       product,
			Quantity:      quantity,
			SelectedColor: v.Color,
			SelectedSize:  v.Size,
		})
	}
	return Cart{Items: items}.withTotals()
}

func (c Cart) Remove(productID string, v Variant) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if !item.matches(productID, v) {
			items = append(items, item)
		}
	}
	return Cart{Items: items}.withTotals()
}

// UpdateQuantity sets the line quantity exactly; zero or less removes the line.
func (c Cart) UpdateQuantity(productID string, quantity int, v Variant) Cart {
	idx := c.indexOf(productID, v)
	if idx < 0 {
		return c.withTotals()
	}
	if quantity <= 0 {
		return c.Remove(productID, v)
	}
	items := c.cloneItems()
	items[idx].Quantity = quantity
	return Cart{Items: items}.withTotals()
}

func (c Cart) Clear() Cart {
	return Cart{}.withTotals()
}

func (c Cart) Quantity(productID string, v Variant) int {
	if idx := c.indexOf(productID, v); idx >= 0 {
		return c.Items[idx].Quantity
	}
	return 0
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Validate checks a cart read back from storage.
func (c Cart) Validate() error {
	for i, item := range c.Items {
		if item.Product.ID == "" {
			return fmt.Errorf("items[%d]: product id is required", i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("items[%d]: quantity must be at least 1", i)
		}
		if item.Product.CurrentPrice < 0 {
			return fmt.Errorf("items[%d]: price must not be negative", i)
		}
	}
	if c.TotalItems < 0 {
		return errors.New("totalItems must not be negative")
	}
	return nil
}
