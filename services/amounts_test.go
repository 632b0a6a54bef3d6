package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"invoicehub-backend/models"
)

func TestItemAmount(t *testing.T) {
	assert.True(t, ItemAmount(dec("3"), dec("12.5"), nil).Equal(dec("37.5")))

	explicit := dec("30")
	assert.True(t, ItemAmount(dec("3"), dec("12.5"), &explicit).Equal(explicit))
}

func TestComputeTotals(t *testing.T) {
	items := []models.LineItem{
		{Amount: dec("100"), Discount: dec("10"), Tax: dec("18")},
		{Amount: dec("50.25"), Discount: decimal.Zero, Tax: dec("4.5")},
	}

	tests := []struct {
		name      string
		overrides Overrides
		roundOff  bool
		taxable   string
		discount  string
		tax       string
		total     string
	}{
		{
			name:     "computed from items",
			taxable:  "150.25",
			discount: "10",
			tax:      "22.5",
			total:    "162.75",
		},
		{
			name:     "round off",
			roundOff: true,
			taxable:  "150.25",
			discount: "10",
			tax:      "22.5",
			total:    "163",
		},
		{
			name:      "grand total override wins",
			overrides: Overrides{GrandTotal: ptr(dec("99"))},
			taxable:   "150.25",
			discount:  "10",
			tax:       "22.5",
			total:     "99",
		},
		{
			name:      "partial overrides recompute the total",
			overrides: Overrides{TotalTax: ptr(dec("0")), TotalDiscount: ptr(dec("0.25"))},
			taxable:   "150.25",
			discount:  "0.25",
			tax:       "0",
			total:     "150",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ComputeTotals(items, tt.overrides, tt.roundOff)
			assert.True(t, c.Effective.Taxable.Equal(dec(tt.taxable)), "taxable %s", c.Effective.Taxable)
			assert.True(t, c.Effective.Discount.Equal(dec(tt.discount)), "discount %s", c.Effective.Discount)
			assert.True(t, c.Effective.Tax.Equal(dec(tt.tax)), "tax %s", c.Effective.Tax)
			assert.True(t, c.Effective.Total.Equal(dec(tt.total)), "total %s", c.Effective.Total)
			assert.True(t, c.Computed.Total.Equal(dec("162.75")))

			var a models.Amounts
			c.Apply(&a, tt.roundOff)
			assert.True(t, a.TotalAmount.Equal(dec(tt.total)))
			assert.Equal(t, tt.roundOff, a.RoundOff)
		})
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	c := ComputeTotals(nil, Overrides{}, false)
	assert.True(t, c.Effective.Total.IsZero())
}

func ptr[T any](v T) *T {
	return &v
}
