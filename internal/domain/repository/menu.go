package repository

import "github.com/polkiloo/tableside/internal/domain/model"

// MenuRepository provides read access to the menu catalog.
type MenuRepository interface {
	All() []model.MenuItem
	Get(id string) (*model.MenuItem, error)
}
