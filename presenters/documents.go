package presenters

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoicehub-backend/models"
)

type PartyView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
	Image string    `json:"image,omitempty"`
}

type BankView struct {
	ID                uuid.UUID `json:"id"`
	BankName          string    `json:"bankName"`
	AccountHolderName string    `json:"accountHolderName"`
	AccountNumber     string    `json:"accountNumber"`
	IFSCCode          string    `json:"IFSCCode"`
	BranchName        string    `json:"branchName"`
}

type ItemView struct {
	ProductID *uuid.UUID      `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	Amount    decimal.Decimal `json:"amount"`
}

// TotalsView mirrors models.Amounts with the field names clients read.
type TotalsView struct {
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	Vat           decimal.Decimal `json:"vat"`
	TotalAmount   decimal.Decimal `json:"TotalAmount"`
	RoundOff      bool            `json:"roundOff"`
}

type InvoiceView struct {
	ID                uuid.UUID       `json:"id"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	Customer          *PartyView      `json:"customerId"`
	InvoiceDate       string          `json:"invoiceDate"`
	DueDate           string          `json:"dueDate"`
	ReferenceNo       string          `json:"referenceNo"`
	PaymentMethod     string          `json:"payment_method"`
	Status            string          `json:"status"`
	Items             []ItemView      `json:"items"`
	TotalsView                        // flattened
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	Balance           decimal.Decimal `json:"balance"`
	Bank              *BankView       `json:"bank"`
	Notes             string          `json:"notes"`
	TermsAndCondition string          `json:"termsAndCondition"`
	IsRecurring       bool            `json:"isRecurring"`
	RecurringCycle    string          `json:"recurringCycle,omitempty"`
	RecurringDuration int             `json:"recurringDuration,omitempty"`
	NextRecurringDate string          `json:"nextRecurringDate,omitempty"`
	ParentInvoiceID   *uuid.UUID      `json:"parentInvoice,omitempty"`
	Signature         SignatureView   `json:"signature"`
	IsDeleted         bool            `json:"isDeleted"`
	CreatedAt         string          `json:"createdAt"`
}

type QuotationView struct {
	ID              uuid.UUID  `json:"id"`
	QuotationNumber string     `json:"quotation_id"`
	Customer        *PartyView `json:"customerId"`
	QuotationDate   string     `json:"quotation_date"`
	ExpiryDate      string     `json:"expiry_date"`
	ReferenceNo     string     `json:"reference_no"`
	Status          string     `json:"status"`
	Items           []ItemView `json:"items"`
	TotalsView
	Bank              *BankView     `json:"bank"`
	Notes             string        `json:"notes"`
	TermsAndCondition string        `json:"termsAndCondition"`
	ConvertedType     string        `json:"convert_type,omitempty"`
	ConvertedID       *uuid.UUID    `json:"convertedId,omitempty"`
	Signature         SignatureView `json:"signature"`
	IsDeleted         bool          `json:"isDeleted"`
	CreatedAt         string        `json:"createdAt"`
}

type PurchaseOrderView struct {
	ID                  uuid.UUID  `json:"id"`
	PurchaseOrderNumber string     `json:"purchaseOrderId"`
	Vendor              *PartyView `json:"vendorId"`
	OrderDate           string     `json:"purchaseOrderDate"`
	DueDate             string     `json:"dueDate"`
	ReferenceNo         string     `json:"referenceNo"`
	Status              string     `json:"status"`
	Items               []ItemView `json:"items"`
	TotalsView
	PurchaseID        *uuid.UUID    `json:"purchaseId,omitempty"`
	Bank              *BankView     `json:"bank"`
	Notes             string        `json:"notes"`
	TermsAndCondition string        `json:"termsAndCondition"`
	Signature         SignatureView `json:"signature"`
	IsDeleted         bool          `json:"isDeleted"`
	CreatedAt         string        `json:"createdAt"`
}

type PurchaseView struct {
	ID                    uuid.UUID  `json:"id"`
	PurchaseNumber        string     `json:"purchaseId"`
	Vendor                *PartyView `json:"vendorId"`
	PurchaseOrderID       *uuid.UUID `json:"purchaseOrderId,omitempty"`
	PurchaseDate          string     `json:"purchaseDate"`
	DueDate               string     `json:"dueDate"`
	ReferenceNo           string     `json:"referenceNo"`
	SupplierInvoiceNumber string     `json:"supplierInvoiceSerialNumber"`
	PaymentMode           string     `json:"paymentMode"`
	Status                string     `json:"status"`
	Items                 []ItemView `json:"items"`
	TotalsView
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	BalanceAmount     decimal.Decimal `json:"balanceAmount"`
	Bank              *BankView       `json:"bank"`
	Notes             string          `json:"notes"`
	TermsAndCondition string          `json:"termsAndCondition"`
	Signature         SignatureView   `json:"signature"`
	IsDeleted         bool            `json:"isDeleted"`
	CreatedAt         string          `json:"createdAt"`
}

type DebitNoteView struct {
	ID              uuid.UUID  `json:"id"`
	DebitNoteNumber string     `json:"debit_note_id"`
	Vendor          *PartyView `json:"vendorId"`
	PurchaseID      *uuid.UUID `json:"purchaseId,omitempty"`
	DebitNoteDate   string     `json:"purchaseOrderDate"`
	DueDate         string     `json:"dueDate"`
	ReferenceNo     string     `json:"referenceNo"`
	Status          string     `json:"status"`
	Items           []ItemView `json:"items"`
	TotalsView
	ApprovedAt        string        `json:"approvedAt,omitempty"`
	Bank              *BankView     `json:"bank"`
	Notes             string        `json:"notes"`
	TermsAndCondition string        `json:"termsAndCondition"`
	Signature         SignatureView `json:"signature"`
	IsDeleted         bool          `json:"isDeleted"`
	CreatedAt         string        `json:"createdAt"`
}

type SupplierPaymentView struct {
	ID             uuid.UUID       `json:"id"`
	PaymentNumber  string          `json:"paymentId"`
	PurchaseID     uuid.UUID       `json:"purchaseId"`
	PurchaseNumber string          `json:"purchaseNumber"`
	Supplier       *PartyView      `json:"supplierId"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMode    string          `json:"paymentMode"`
	PaymentDate    string          `json:"paymentDate"`
	Notes          string          `json:"notes"`
}

func customerParty(c *models.Customer, o Options) *PartyView {
	if c == nil {
		return nil
	}
	return &PartyView{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, Image: o.Image(c.Image)}
}

func supplierParty(s *models.Supplier) *PartyView {
	if s == nil {
		return nil
	}
	return &PartyView{ID: s.ID, Name: s.Name, Email: s.Email, Phone: s.Phone}
}

func bankView(b *models.BankDetail) *BankView {
	if b == nil {
		return nil
	}
	return &BankView{
		ID:                b.ID,
		BankName:          b.BankName,
		AccountHolderName: b.AccountHolderName,
		AccountNumber:     b.AccountNumber,
		IFSCCode:          b.IFSCCode,
		BranchName:        b.BranchName,
	}
}

func itemViews(items []models.LineItem) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, ItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			Unit:      it.Unit,
			Quantity:  it.Quantity,
			Rate:      it.Rate,
			Discount:  it.Discount,
			Tax:       it.Tax,
			Amount:    it.Amount,
		})
	}
	return out
}

func totalsView(a models.Amounts) TotalsView {
	return TotalsView{
		TaxableAmount: a.TaxableAmount,
		TotalDiscount: a.TotalDiscount,
		Vat:           a.TotalTax,
		TotalAmount:   a.TotalAmount,
		RoundOff:      a.RoundOff,
	}
}

func Invoice(inv *models.Invoice, o Options) InvoiceView {
	return InvoiceView{
		ID:                inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		Customer:          customerParty(inv.Customer, o),
		InvoiceDate:       FormatDate(inv.InvoiceDate),
		DueDate:           FormatDate(inv.DueDate),
		ReferenceNo:       inv.ReferenceNo,
		PaymentMethod:     inv.PaymentMethod,
		Status:            inv.Status,
		Items:             itemViews(inv.Items),
		TotalsView:        totalsView(inv.Amounts),
		PaidAmount:        inv.PaidAmount,
		Balance:           inv.BalanceAmount,
		Bank:              bankView(inv.BankDetail),
		Notes:             inv.Notes,
		TermsAndCondition: inv.TermsAndCondition,
		IsRecurring:       inv.IsRecurring,
		RecurringCycle:    inv.RecurringCycle,
		RecurringDuration: inv.RecurringDuration,
		NextRecurringDate: FormatDatePtr(inv.NextRecurringDate),
		ParentInvoiceID:   inv.ParentInvoiceID,
		Signature:         SignatureBlock(inv.SignInfo, inv.Signature, o),
		IsDeleted:         inv.IsDeleted,
		CreatedAt:         FormatDate(inv.CreatedAt),
	}
}

func Invoices(list []models.Invoice, o Options) []InvoiceView {
	out := make([]InvoiceView, 0, len(list))
	for i := range list {
		out = append(out, Invoice(&list[i], o))
	}
	return out
}

func Quotation(q *models.Quotation, o Options) QuotationView {
	return QuotationView{
		ID:                q.ID,
		QuotationNumber:   q.QuotationNumber,
		Customer:          customerParty(q.Customer, o),
		QuotationDate:     FormatDate(q.QuotationDate),
		ExpiryDate:        FormatDatePtr(q.ExpiryDate),
		ReferenceNo:       q.ReferenceNo,
		Status:            q.Status,
		Items:             itemViews(q.Items),
		TotalsView:        totalsView(q.Amounts),
		Bank:              bankView(q.BankDetail),
		Notes:             q.Notes,
		TermsAndCondition: q.TermsAndCondition,
		ConvertedType:     q.ConvertedType,
		ConvertedID:       q.ConvertedID,
		Signature:         SignatureBlock(q.SignInfo, q.Signature, o),
		IsDeleted:         q.IsDeleted,
		CreatedAt:         FormatDate(q.CreatedAt),
	}
}

func Quotations(list []models.Quotation, o Options) []QuotationView {
	out := make([]QuotationView, 0, len(list))
	for i := range list {
		out = append(out, Quotation(&list[i], o))
	}
	return out
}

func PurchaseOrder(po *models.PurchaseOrder, o Options) PurchaseOrderView {
	return PurchaseOrderView{
		ID:                  po.ID,
		PurchaseOrderNumber: po.PurchaseOrderNumber,
		Vendor:              supplierParty(po.Vendor),
		OrderDate:           FormatDate(po.OrderDate),
		DueDate:             FormatDatePtr(po.DueDate),
		ReferenceNo:         po.ReferenceNo,
		Status:              po.Status,
		Items:               itemViews(po.Items),
		TotalsView:          totalsView(po.Amounts),
		PurchaseID:          po.PurchaseID,
		Bank:                bankView(po.BankDetail),
		Notes:               po.Notes,
		TermsAndCondition:   po.TermsAndCondition,
		Signature:           SignatureBlock(po.SignInfo, po.Signature, o),
		IsDeleted:           po.IsDeleted,
		CreatedAt:           FormatDate(po.CreatedAt),
	}
}

func PurchaseOrders(list []models.PurchaseOrder, o Options) []PurchaseOrderView {
	out := make([]PurchaseOrderView, 0, len(list))
	for i := range list {
		out = append(out, PurchaseOrder(&list[i], o))
	}
	return out
}

func Purchase(p *models.Purchase, o Options) PurchaseView {
	return PurchaseView{
		ID:                    p.ID,
		PurchaseNumber:        p.PurchaseNumber,
		Vendor:                supplierParty(p.Vendor),
		PurchaseOrderID:       p.PurchaseOrderID,
		PurchaseDate:          FormatDate(p.PurchaseDate),
		DueDate:               FormatDatePtr(p.DueDate),
		ReferenceNo:           p.ReferenceNo,
		SupplierInvoiceNumber: p.SupplierInvoiceNumber,
		PaymentMode:           p.PaymentMode,
		Status:                p.Status,
		Items:                 itemViews(p.Items),
		TotalsView:            totalsView(p.Amounts),
		PaidAmount:            p.PaidAmount,
		BalanceAmount:         p.BalanceAmount,
		Bank:                  bankView(p.BankDetail),
		Notes:                 p.Notes,
		TermsAndCondition:     p.TermsAndCondition,
		Signature:             SignatureBlock(p.SignInfo, p.Signature, o),
		IsDeleted:             p.IsDeleted,
		CreatedAt:             FormatDate(p.CreatedAt),
	}
}

func Purchases(list []models.Purchase, o Options) []PurchaseView {
	out := make([]PurchaseView, 0, len(list))
	for i := range list {
		out = append(out, Purchase(&list[i], o))
	}
	return out
}

func DebitNote(dn *models.DebitNote, o Options) DebitNoteView {
	return DebitNoteView{
		ID:                dn.ID,
		DebitNoteNumber:   dn.DebitNoteNumber,
		Vendor:            supplierParty(dn.Vendor),
		PurchaseID:        dn.PurchaseID,
		DebitNoteDate:     FormatDate(dn.DebitNoteDate),
		DueDate:           FormatDatePtr(dn.DueDate),
		ReferenceNo:       dn.ReferenceNo,
		Status:            dn.Status,
		Items:             itemViews(dn.Items),
		TotalsView:        totalsView(dn.Amounts),
		ApprovedAt:        FormatDatePtr(dn.ApprovedAt),
		Bank:              bankView(dn.BankDetail),
		Notes:             dn.Notes,
		TermsAndCondition: dn.TermsAndCondition,
		Signature:         SignatureBlock(dn.SignInfo, dn.Signature, o),
		IsDeleted:         dn.IsDeleted,
		CreatedAt:         FormatDate(dn.CreatedAt),
	}
}

func DebitNotes(list []models.DebitNote, o Options) []DebitNoteView {
	out := make([]DebitNoteView, 0, len(list))
	for i := range list {
		out = append(out, DebitNote(&list[i], o))
	}
	return out
}

func SupplierPayment(p *models.SupplierPayment) SupplierPaymentView {
	view := SupplierPaymentView{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		PurchaseID:    p.PurchaseID,
		Supplier:      supplierParty(p.Supplier),
		Amount:        p.Amount,
		PaymentMode:   p.PaymentMode,
		PaymentDate:   FormatDate(p.PaymentDate),
		Notes:         p.Notes,
	}
	if p.Purchase != nil {
		view.PurchaseNumber = p.Purchase.PurchaseNumber
	}
	return view
}

func SupplierPayments(list []models.SupplierPayment) []SupplierPaymentView {
	out := make([]SupplierPaymentView, 0, len(list))
	for i := range list {
		out = append(out, SupplierPayment(&list[i]))
	}
	return out
}
