package services

import (
	"github.com/shopspring/decimal"

	"invoicehub-backend/models"
)

// Overrides are aggregate values a client may send with a document. Each supplied value
// replaces the computed one.
type Overrides struct {
	SubTotal      *decimal.Decimal `json:"subTotal"`
	TotalDiscount *decimal.Decimal `json:"totalDiscount"`
	TotalTax      *decimal.Decimal `json:"totalTax"`
	GrandTotal    *decimal.Decimal `json:"grandTotal"`
}

type Totals struct {
	Taxable  decimal.Decimal `json:"taxableAmount"`
	Discount decimal.Decimal `json:"totalDiscount"`
	Tax      decimal.Decimal `json:"totalTax"`
	Total    decimal.Decimal `json:"totalAmount"`
}

// Computation keeps the totals derived from the items next to the ones that are stored.
type Computation struct {
	Computed  Totals
	Effective Totals
}

// ItemAmount is the explicit amount when present, otherwise quantity * rate.
func ItemAmount(quantity, rate decimal.Decimal, amount *decimal.Decimal) decimal.Decimal {
	if amount != nil {
		return *amount
	}
	return quantity.Mul(rate)
}

// ComputeTotals sums line items and applies client overrides.
func ComputeTotals(items []models.LineItem, o Overrides, roundOff bool) Computation {
	var computed Totals
	computed.Taxable = decimal.Zero
	computed.Discount = decimal.Zero
	computed.Tax = decimal.Zero
	for _, it := range items {
		computed.Taxable = computed.Taxable.Add(it.Amount)
		computed.Discount = computed.Discount.Add(it.Discount)
		computed.Tax = computed.Tax.Add(it.Tax)
	}
	computed.Total = computed.Taxable.Add(computed.Tax).Sub(computed.Discount)

	effective := computed
	if o.SubTotal != nil {
		effective.Taxable = *o.SubTotal
	}
	if o.TotalDiscount != nil {
		effective.Discount = *o.TotalDiscount
	}
	if o.TotalTax != nil {
		effective.Tax = *o.TotalTax
	}
	if o.GrandTotal != nil {
		effective.Total = *o.GrandTotal
	} else {
		effective.Total = effective.Taxable.Add(effective.Tax).Sub(effective.Discount)
	}
	if roundOff {
		effective.Total = effective.Total.Round(0)
	}

	return Computation{Computed: computed, Effective: effective}
}

// Apply stores the effective totals on a document.
func (c Computation) Apply(a *models.Amounts, roundOff bool) {
	a.TaxableAmount = c.Effective.Taxable
	a.TotalDiscount = c.Effective.Discount
	a.TotalTax = c.Effective.Tax
	a.TotalAmount = c.Effective.Total
	a.RoundOff = roundOff
}
