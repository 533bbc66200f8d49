package allocator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name        string
		unmatched   string
		outstanding string
		want        string
		ok          bool
	}{
		{"payment covers part of the account", "2000.00", "8000.00", "2000.00", true},
		{"account absorbs part of the payment", "10000.00", "8000.00", "8000.00", true},
		{"both sides equal, full match", "5000.00", "5000.00", "5000.00", true},
		{"account already fully paid", "5000.00", "0.00", "0", false},
		{"payment fully allocated", "0.00", "5000.00", "0", false},
		{"negative outstanding", "5000.00", "-10.00", "0", false},
		{"fractional cents rounded before comparison", "100.005", "100.004", "100.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Allocate(dec(tt.unmatched), dec(tt.outstanding))
			assert.Equal(t, tt.ok, ok)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestAllocate_NeverExceedsEitherCeiling(t *testing.T) {
	amount, ok := Allocate(dec("123.45"), dec("678.90"))

	assert.True(t, ok)
	assert.True(t, amount.LessThanOrEqual(dec("123.45")))
	assert.True(t, amount.LessThanOrEqual(dec("678.90")))
}
