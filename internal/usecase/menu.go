package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/domain/repository"
)

const (
	allCategories      = "All"
	recommendationSize = 2
)

// MenuUseCase answers catalog queries.
type MenuUseCase struct {
	menu repository.MenuRepository
}

// NewMenuUseCase constructs MenuUseCase.
func NewMenuUseCase(menu repository.MenuRepository) *MenuUseCase {
	return &MenuUseCase{menu: menu}
}

// List filters the catalog by category and a case-insensitive query over
// name, description and tags.
func (u *MenuUseCase) List(category, query string) []model.MenuItem {
	query = strings.ToLower(strings.TrimSpace(query))
	matched := make([]model.MenuItem, 0)
	for _, item := range u.menu.All() {
		if category != "" && category != allCategories && item.Category != category {
			continue
		}
		if query != "" && !matches(item, query) {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

// Categories returns distinct categories in catalog order.
func (u *MenuUseCase) Categories() []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, item := range u.menu.All() {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories
}

// Get returns a single item.
func (u *MenuUseCase) Get(id string) (*model.MenuItem, error) {
	return u.menu.Get(id)
}

// Recommendations suggests the two items most similar to id.
func (u *MenuUseCase) Recommendations(id string) ([]model.MenuItem, error) {
	base, err := u.menu.Get(id)
	if err != nil {
		return nil, err
	}

	type scored struct {
		item  model.MenuItem
		score int
	}
	candidates := make([]scored, 0)
	for _, item := range u.menu.All() {
		if item.ID == base.ID {
			continue
		}
		candidates = append(candidates, scored{item: item, score: similarity(*base, item)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := min(recommendationSize, len(candidates))
	out := make([]model.MenuItem, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.item)
	}
	return out, nil
}

// Popular returns up to limit items flagged popular. A non-positive limit
// returns all of them.
func (u *MenuUseCase) Popular(limit int) []model.MenuItem {
	popular := make([]model.MenuItem, 0)
	for _, item := range u.menu.All() {
		if !item.Popular {
			continue
		}
		popular = append(popular, item)
		if limit > 0 && len(popular) == limit {
			break
		}
	}
	return popular
}

func matches(item model.MenuItem, query string) bool {
	if strings.Contains(strings.ToLower(item.Name), query) ||
		strings.Contains(strings.ToLower(item.Description), query) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func similarity(base, other model.MenuItem) int {
	score := 0
	if other.Category == base.Category {
		score += 5
	}

	tags := make(map[string]struct{}, len(base.Tags))
	for _, t := range base.Tags {
		tags[t] = struct{}{}
	}
	for _, t := range other.Tags {
		if _, ok := tags[t]; ok {
			score += 2
		}
	}

	switch diff := math.Abs(other.Price - base.Price); {
	case diff < 50:
		score += 3
	case diff < 100:
		score += 2
	case diff < 150:
		score++
	}

	if other.Popular == base.Popular {
		score++
	}
	return score
}
