package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document number prefixes
const (
	PrefixInvoice         = "INV"
	PrefixInvoicePayment  = "IP"
	PrefixQuotation       = "QUO"
	PrefixPurchaseOrder   = "PO"
	PrefixPurchase        = "PUR"
	PrefixSupplierPayment = "SP"
	PrefixDebitNote       = "DN"
)

const nextSequenceSQL = `INSERT INTO document_sequences (name, user_id, last_value) VALUES (?, ?, 1)
ON CONFLICT (name, user_id) DO UPDATE SET last_value = document_sequences.last_value + 1
RETURNING last_value`

// NextNumber reserves the owner's next number for prefix. The increment is a single
// statement, so concurrent callers never observe the same value. Run it inside the
// transaction that inserts the document so a rollback gives the number back.
func NextNumber(ctx context.Context, tx *gorm.DB, prefix string, ownerID uuid.UUID) (string, error) {
	var value int64
	if err := tx.WithContext(ctx).Raw(nextSequenceSQL, prefix, ownerID).Scan(&value).Error; err != nil {
		return "", fmt.Errorf("next %s number: %w", prefix, err)
	}
	if value == 0 {
		return "", fmt.Errorf("next %s number: sequence returned no value", prefix)
	}
	return FormatNumber(prefix, value), nil
}

func FormatNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}
