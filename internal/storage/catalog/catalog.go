// Package catalog serves the read-only menu from an embedded JSON document.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
)

//go:embed menu.json
var embeddedMenu []byte

// Catalog is an in-memory menu repository.
type Catalog struct {
	items []model.MenuItem
	byID  map[string]int
}

// document mirrors the snake_case layout of the menu file.
type document struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Image           string   `json:"image"`
	Category        string   `json:"category"`
	PreparationTime int      `json:"preparation_time"`
	Popular         bool     `json:"popular"`
	Tags            []string `json:"tags"`
	Complexity      int      `json:"complexity"`
}

// Load reads the menu from path, or the embedded menu when path is empty.
func Load(path string) (*Catalog, error) {
	raw := embeddedMenu
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read menu file: %w", err)
		}
		raw = content
	}
	return Parse(raw)
}

// Parse builds a catalog from a JSON array of menu items.
func Parse(raw []byte) (*Catalog, error) {
	var docs []document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}

	items := make([]model.MenuItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, model.MenuItem{
			ID:              d.ID,
			Name:            d.Name,
			Description:     d.Description,
			Price:           d.Price,
			Image:           d.Image,
			Category:        d.Category,
			PreparationTime: d.PreparationTime,
			Popular:         d.Popular,
			Tags:            d.Tags,
			Complexity:      d.Complexity,
		})
	}
	return New(items)
}

// New validates items and indexes them by id.
func New(items []model.MenuItem) (*Catalog, error) {
	c := &Catalog{items: items, byID: make(map[string]int, len(items))}
	for i, item := range items {
		switch {
		case item.ID == "":
			return nil, fmt.Errorf("menu item %d: missing id", i)
		case item.Price < 0:
			return nil, fmt.Errorf("menu item %s: negative price", item.ID)
		case item.PreparationTime <= 0:
			return nil, fmt.Errorf("menu item %s: preparation time must be positive", item.ID)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("menu item %s: duplicate id", item.ID)
		}
		c.byID[item.ID] = i
	}
	return c, nil
}

// All returns every item in catalog order.
func (c *Catalog) All() []model.MenuItem {
	out := make([]model.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the item with id.
func (c *Catalog) Get(id string) (*model.MenuItem, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, domainErrors.ErrMenuItemNotFound
	}
	item := c.items[i]
	return &item, nil
}
