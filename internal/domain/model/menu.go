package model

// DefaultComplexity is assumed for menu items without an explicit rating.
const DefaultComplexity = 3

// MenuItem is an immutable catalog entry.
type MenuItem struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Image           string   `json:"image,omitempty"`
	Category        string   `json:"category"`
	PreparationTime int      `json:"preparationTime"`
	Popular         bool     `json:"popular"`
	Tags            []string `json:"tags"`
	Complexity      int      `json:"complexity,omitempty"`
}

// EffectiveComplexity returns the complexity rating, defaulting when unset.
func (m MenuItem) EffectiveComplexity() int {
	if m.Complexity == 0 {
		return DefaultComplexity
	}
	return m.Complexity
}
