package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMarginFor(t *testing.T) {
	cases := []struct {
		cost   string
		margin string
	}{
		{"0.00", "0.16"},
		{"0.005", "0.16"},
		{"0.01", "0.16"},
		{"4.99", "0.16"},
		{"5.00", "0.15"},
		{"14.99", "0.15"},
		{"15.00", "0.13"},
		{"24.99", "0.13"},
		{"25.00", "0.11"},
		{"36.99", "0.11"},
		{"40.00", "0.09"},
		{"64.99", "0.09"},
		{"65.00", "0.07"},
		{"90.00", "0.06"},
		{"119.99", "0.06"},
		{"120.00", "0.05"},
		{"9999.00", "0.05"},
	}
	for _, c := range cases {
		cost := decimal.RequireFromString(c.cost)
		want := decimal.RequireFromString(c.margin)
		if got := MarginFor(cost); !got.Equal(want) {
			t.Errorf("MarginFor(%s) = %s, want %s", c.cost, got, want)
		}
	}
}

func TestMarginMonotonicity(t *testing.T) {
	costs := []string{"0.50", "3.00", "7.50", "20.00", "30.00", "50.00", "70.00", "100.00", "500.00"}
	prev := decimal.NewFromInt(1)
	for _, c := range costs {
		m := MarginFor(decimal.RequireFromString(c))
		if m.GreaterThan(prev) {
			t.Errorf("margin increased at cost %s: %s > %s", c, m, prev)
		}
		prev = m
	}
}
