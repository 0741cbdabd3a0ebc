package estimator

import (
	"fmt"
	"math"
	"testing"

	"github.com/polkiloo/tableside/internal/domain/model"
)

func line(id, category string, prep, complexity, quantity int) model.LineItem {
	return model.LineItem{
		MenuItem: model.MenuItem{ID: id, Category: category, PreparationTime: prep, Complexity: complexity, Price: 100},
		Quantity: quantity,
	}
}

func TestEstimateEmpty(t *testing.T) {
	if got := Estimate(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %d", got)
	}
	if got := Estimate([]model.LineItem{}); got != 0 {
		t.Fatalf("expected 0 for empty slice, got %d", got)
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name  string
		items []model.LineItem
		want  int
	}{
		{name: "single default complexity", items: []model.LineItem{line("1", "Pizza", 10, 0, 1)}, want: 10},
		{name: "single explicit complexity 3", items: []model.LineItem{line("1", "Pizza", 20, 3, 1)}, want: 20},
		{name: "two units same item", items: []model.LineItem{line("1", "Pizza", 10, 3, 2)}, want: 14},
		{name: "complexity 5 adds 20 percent", items: []model.LineItem{line("1", "Pizza", 10, 5, 1)}, want: 12},
		{name: "complexity 1 removes 20 percent", items: []model.LineItem{line("1", "Pizza", 10, 1, 1)}, want: 8},
		// (5*0.9 + 4) * 0.9 * 1.03 = 7.8795
		{name: "two categories", items: []model.LineItem{line("1", "Burgers", 5, 2, 1), line("3", "Sides", 4, 0, 1)}, want: 8},
		{name: "zero quantity ignored", items: []model.LineItem{line("1", "Pizza", 10, 3, 1), line("2", "Sides", 30, 3, 0)}, want: 10},
		{name: "negative quantity ignored", items: []model.LineItem{line("2", "Sides", 30, 3, -2)}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Estimate(tt.items); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestEstimateCategoryFactorFloor(t *testing.T) {
	items := make([]model.LineItem, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, line(fmt.Sprint(i), fmt.Sprintf("cat-%d", i), 10, 3, 1))
	}
	// 100 minutes * 0.6 * (1 + 9*0.03)
	want := int(math.Round(100 * 0.6 * 1.27))
	if got := Estimate(items); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
	if f := CategoryFactor(10); f != 0.6 {
		t.Fatalf("expected floor 0.6, got %v", f)
	}
	if f := CategoryFactor(50); f != 0.6 {
		t.Fatalf("expected floor 0.6 for many categories, got %v", f)
	}
}

func TestSizeFactorCap(t *testing.T) {
	if f := SizeFactor(1); f != 1 {
		t.Fatalf("expected 1, got %v", f)
	}
	if f := SizeFactor(2); math.Abs(f-1.03) > 1e-9 {
		t.Fatalf("expected 1.03, got %v", f)
	}
	if f := SizeFactor(100); f != 1.3 {
		t.Fatalf("expected cap 1.3, got %v", f)
	}
}

func TestEstimateNonNegative(t *testing.T) {
	for prep := 1; prep <= 60; prep += 7 {
		for complexity := 0; complexity <= 5; complexity++ {
			for qty := 1; qty <= 12; qty += 3 {
				if got := Estimate([]model.LineItem{line("x", "c", prep, complexity, qty)}); got < 0 {
					t.Fatalf("negative estimate %d for prep=%d cx=%d qty=%d", got, prep, complexity, qty)
				}
			}
		}
	}
}

func TestEstimateDeterministic(t *testing.T) {
	items := []model.LineItem{line("1", "Pizza", 20, 3, 2), line("2", "Sides", 4, 1, 3), line("3", "Desserts", 8, 4, 1)}
	first := Estimate(items)
	for i := 0; i < 10; i++ {
		if got := Estimate(items); got != first {
			t.Fatalf("estimate changed between calls: %d vs %d", got, first)
		}
	}
}

func TestTotalAndServiceFee(t *testing.T) {
	items := []model.LineItem{
		{MenuItem: model.MenuItem{Price: 199.99}, Quantity: 2},
		{MenuItem: model.MenuItem{Price: 0.01}, Quantity: 1},
		{MenuItem: model.MenuItem{Price: 50}, Quantity: 0},
	}
	if got := Total(items); got != 399.99 {
		t.Fatalf("expected 399.99, got %v", got)
	}
	if got := ServiceFee(349); got != 17.45 {
		t.Fatalf("expected 17.45, got %v", got)
	}
	if got := ItemCount(items); got != 3 {
		t.Fatalf("expected 3 units, got %d", got)
	}
	if got := Total(nil); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
