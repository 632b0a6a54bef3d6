package presenters

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicehub-backend/models"
)

var opts = Options{BaseURL: "https://api.example.com/", Placeholder: "/assets/img/placeholder.png"}

func TestImageURL(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"stored upload", "signatures/a.png", "https://api.example.com/uploads/signatures/a.png"},
		{"empty uses placeholder", "", "https://api.example.com/assets/img/placeholder.png"},
		{"absolute passes through", "https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
		{"rooted path", "/static/logo.svg", "https://api.example.com/static/logo.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, opts.Image(tt.path))
		})
	}

	assert.Equal(t, "", ImageURL("https://api.example.com", "", ""))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 7, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "07, Mar 2025", FormatDate(d))
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "", FormatDatePtr(nil))
	assert.Equal(t, "07, Mar 2025", FormatDatePtr(&d))
}

func TestSignatureBlock(t *testing.T) {
	sigID := uuid.New()
	stored := &models.Signature{SignatureName: "Owner", SignatureImage: "signatures/owner.png"}

	digital := SignatureBlock(models.SignInfo{SignType: models.SignTypeDigital, SignatureID: &sigID}, stored, opts)
	assert.Equal(t, models.SignTypeDigital, digital.SignType)
	assert.Equal(t, sigID.String(), digital.SignatureID)
	assert.Equal(t, "Owner", digital.SignatureName)
	assert.Equal(t, "https://api.example.com/uploads/signatures/owner.png", digital.SignatureImage)

	e := SignatureBlock(models.SignInfo{SignType: models.SignTypeE, SignatureName: "J. Doe", SignatureImage: "signatures/j.png"}, stored, opts)
	assert.Equal(t, "J. Doe", e.SignatureName)
	assert.Equal(t, "https://api.example.com/uploads/signatures/j.png", e.SignatureImage)
	assert.Empty(t, e.SignatureID)

	none := SignatureBlock(models.SignInfo{}, stored, opts)
	assert.Equal(t, SignatureView{SignType: models.SignTypeNone}, none)
}

func TestInvoiceView(t *testing.T) {
	next := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	inv := &models.Invoice{
		InvoiceNumber: "INV-000042",
		InvoiceDate:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, time.July, 8, 0, 0, 0, 0, time.UTC),
		Status:        models.InvoiceSent,
		Amounts: models.Amounts{
			TaxableAmount: decimal.RequireFromString("100"),
			TotalTax:      decimal.RequireFromString("18"),
			TotalAmount:   decimal.RequireFromString("118"),
		},
		PaidAmount:        decimal.RequireFromString("18"),
		BalanceAmount:     decimal.RequireFromString("100"),
		IsRecurring:       true,
		RecurringCycle:    "monthly",
		RecurringDuration: 1,
		NextRecurringDate: &next,
		Customer:          &models.Customer{Name: "Acme Ltd", Phone: "+15550001111"},
		Items:             []models.LineItem{{Name: "Hosting", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100), Amount: decimal.NewFromInt(100)}},
	}

	view := Invoice(inv, opts)
	assert.Equal(t, "01, Jul 2025", view.InvoiceDate)
	assert.Equal(t, "08, Jul 2025", view.DueDate)
	assert.Equal(t, "01, Aug 2025", view.NextRecurringDate)
	require.NotNil(t, view.Customer)
	assert.Equal(t, "https://api.example.com/assets/img/placeholder.png", view.Customer.Image)
	assert.Nil(t, view.Bank)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "118", body["TotalAmount"])
	assert.Equal(t, "18", body["vat"])
	assert.Equal(t, "100", body["balance"])
	assert.Equal(t, "Acme Ltd", body["customerId"].(map[string]interface{})["name"])
	assert.Len(t, body["items"], 1)
}

func TestInventoryLowStock(t *testing.T) {
	inv := &models.Inventory{
		Quantity: decimal.NewFromInt(3),
		Product:  &models.Product{Name: "Widget", SKU: "W-1", AlertQuantity: decimal.NewFromInt(5)},
		History: []models.InventoryHistory{
			{Type: models.Adjustment, Adjustment: decimal.NewFromInt(3), ResultingQuantity: decimal.NewFromInt(3)},
		},
	}
	view := Inventory(inv)
	assert.True(t, view.LowStock)
	assert.Equal(t, "Widget", view.ProductName)
	assert.Len(t, view.History, 1)

	inv.Product.AlertQuantity = decimal.Zero
	assert.False(t, Inventory(inv).LowStock)
}
