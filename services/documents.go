package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

// ItemInput is one line item as sent by the client.
type ItemInput struct {
	ProductID *uuid.UUID       `json:"productId"`
	Name      string           `json:"name"`
	Unit      string           `json:"unit"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Rate      decimal.Decimal  `json:"rate"`
	Discount  decimal.Decimal  `json:"discount"`
	Tax       decimal.Decimal  `json:"tax"`
	Amount    *decimal.Decimal `json:"amount"`
}

// DocumentInput holds the fields shared by every sales and purchase document.
type DocumentInput struct {
	Items []ItemInput `json:"items"`
	Overrides
	RoundOff bool `json:"roundOff"`

	ReferenceNo       string     `json:"referenceNo"`
	BankDetailID      *uuid.UUID `json:"bankId"`
	Notes             string     `json:"notes"`
	TermsAndCondition string     `json:"termsAndCondition"`

	SignType      string     `json:"sign_type"`
	SignatureID   *uuid.UUID `json:"signatureId"`
	SignatureName string     `json:"signatureName"`
	// SignatureImage is filled from the multipart upload, never from JSON.
	SignatureImage string `json:"-"`
}

// ListFilter narrows document lists.
type ListFilter struct {
	Search  string
	Status  string
	PartyID *uuid.UUID
	From    *time.Time
	To      *time.Time
}

func findOwned[T any](ctx context.Context, db *gorm.DB, userID, id uuid.UUID, what string) (*T, error) {
	var out T
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(what + " not found")
		}
		return nil, utils.Internal(err)
	}
	return &out, nil
}

// findLive is findOwned restricted to records that are not soft deleted.
func findLive[T any](ctx context.Context, db *gorm.DB, userID, id uuid.UUID, what string) (*T, error) {
	return findOwned[T](ctx, db.Where("is_deleted = ?", false), userID, id, what)
}

// lockForUpdate adds FOR UPDATE where the dialect supports it. SQLite serialises writers.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// BuildLineItems validates the items and resolves their amounts and product names.
func BuildLineItems(ctx context.Context, tx *gorm.DB, userID uuid.UUID, inputs []ItemInput) ([]models.LineItem, error) {
	if len(inputs) == 0 {
		return nil, utils.ValidationError(map[string]string{"items": "must contain at least one item"})
	}

	fields := map[string]string{}
	for i, in := range inputs {
		key := fmt.Sprintf("items[%d]", i)
		if !in.Quantity.IsPositive() {
			fields[key+".quantity"] = "must be greater than 0"
		}
		if in.Rate.IsNegative() {
			fields[key+".rate"] = "must not be negative"
		}
		if in.Discount.IsNegative() {
			fields[key+".discount"] = "must not be negative"
		}
		if in.Tax.IsNegative() {
			fields[key+".tax"] = "must not be negative"
		}
		if in.ProductID == nil && in.Name == "" {
			fields[key+".name"] = "is required without a product"
		}
	}
	if len(fields) > 0 {
		return nil, utils.ValidationError(fields)
	}

	items := make([]models.LineItem, 0, len(inputs))
	for i, in := range inputs {
		item := models.LineItem{
			ProductID: in.ProductID,
			Name:      in.Name,
			Unit:      in.Unit,
			Position:  i,
			Quantity:  in.Quantity,
			Rate:      in.Rate,
			Discount:  in.Discount,
			Tax:       in.Tax,
			Amount:    ItemAmount(in.Quantity, in.Rate, in.Amount),
		}
		if in.ProductID != nil {
			product, err := findLive[models.Product](ctx, tx, userID, *in.ProductID, "Product")
			if err != nil {
				return nil, err
			}
			if item.Name == "" {
				item.Name = product.Name
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// ResolveSign validates the signature choice of a document. previous is the stored value on
// update, so an e-signature keeps its image when no new one is uploaded.
func ResolveSign(ctx context.Context, tx *gorm.DB, userID uuid.UUID, in DocumentInput, previous *models.SignInfo) (models.SignInfo, error) {
	switch in.SignType {
	case "", models.SignTypeNone:
		return models.SignInfo{SignType: models.SignTypeNone}, nil
	case models.SignTypeDigital:
		if in.SignatureID == nil {
			return models.SignInfo{}, utils.ValidationError(map[string]string{"signatureId": "is required for a digital signature"})
		}
		sig, err := findLive[models.Signature](ctx, tx, userID, *in.SignatureID, "Signature")
		if err != nil {
			return models.SignInfo{}, err
		}
		if !sig.Status {
			return models.SignInfo{}, utils.BadRequest("Signature is inactive")
		}
		return models.SignInfo{SignType: models.SignTypeDigital, SignatureID: &sig.ID}, nil
	case models.SignTypeE:
		image := in.SignatureImage
		if image == "" && previous != nil && previous.SignType == models.SignTypeE {
			image = previous.SignatureImage
		}
		fields := map[string]string{}
		if in.SignatureName == "" {
			fields["signatureName"] = "is required for an e-signature"
		}
		if image == "" {
			fields["signatureImage"] = "is required for an e-signature"
		}
		if len(fields) > 0 {
			return models.SignInfo{}, utils.ValidationError(fields)
		}
		return models.SignInfo{SignType: models.SignTypeE, SignatureName: in.SignatureName, SignatureImage: image}, nil
	default:
		return models.SignInfo{}, utils.ValidationError(map[string]string{"sign_type": "must be one of: none digitalSignature eSignature"})
	}
}

// replacedSignImage is the stored e-signature image that a new sign choice makes obsolete.
func replacedSignImage(previous, next models.SignInfo) string {
	if previous.SignatureImage != "" && previous.SignatureImage != next.SignatureImage {
		return previous.SignatureImage
	}
	return ""
}

func checkBank(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := findLive[models.BankDetail](ctx, tx, userID, *id, "Bank detail")
	return err
}

// replaceItems swaps the stored line items of a document.
func replaceItems(ctx context.Context, tx *gorm.DB, docType string, docID uuid.UUID, items []models.LineItem) error {
	if err := tx.WithContext(ctx).Where("document_type = ? AND document_id = ?", docType, docID).Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].DocumentType = docType
		items[i].DocumentID = docID
	}
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

// copyItems clones stored items so they can be attached to another document.
func copyItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	for i, it := range items {
		it.ID = uuid.Nil
		it.DocumentID = uuid.Nil
		it.DocumentType = ""
		it.Product = nil
		out[i] = it
	}
	return out
}

func itemsOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func applyListFilter(q *gorm.DB, f ListFilter, numberColumn, dateColumn, partyColumn string) *gorm.DB {
	if f.Search != "" {
		q = q.Where("LOWER("+numberColumn+") LIKE ?", f.Search)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PartyID != nil {
		q = q.Where(partyColumn+" = ?", *f.PartyID)
	}
	if f.From != nil {
		q = q.Where(dateColumn+" >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where(dateColumn+" < ?", f.To.AddDate(0, 0, 1))
	}
	return q
}

func dateOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil || t.IsZero() {
		return fallback
	}
	return t.UTC()
}
