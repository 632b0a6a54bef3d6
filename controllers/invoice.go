// controllers/invoice.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicehub-backend/config"
	"invoicehub-backend/presenters"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

// StatusInput is the body of every PATCH .../status endpoint
type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

func invoiceService() *services.InvoiceService {
	return services.NewInvoiceService(config.DB)
}

// CreateInvoice creates an invoice, numbers it and takes its products out of stock
func CreateInvoice(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.InvoiceInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	invoice, err := invoiceService().Create(c.Request.Context(), userID, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Commit()

	c.JSON(http.StatusCreated, presenters.Invoice(invoice, presenterOptions()))
}

// GetInvoices lists invoices with ?search, ?status, ?customerId, ?from and ?to filters
func GetInvoices(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := listFilter(c, "customerId")
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	invoices, total, err := invoiceService().List(c.Request.Context(), userID, f, p)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.Paged(presenters.Invoices(invoices, presenterOptions()), total, p))
}

func GetInvoice(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := invoiceService().Get(c.Request.Context(), userID, id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenters.Invoice(invoice, presenterOptions()))
}

// UpdateInvoice replaces the invoice content. Totals are recomputed and stock is moved
// through reversal entries.
func UpdateInvoice(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.InvoiceInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	invoice, obsolete, err := invoiceService().Update(c.Request.Context(), userID, id, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Replace(obsolete)
	uploads.Commit()

	c.JSON(http.StatusOK, presenters.Invoice(invoice, presenterOptions()))
}

// DeleteInvoice soft deletes an invoice and returns its products to stock
func DeleteInvoice(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	if err := invoiceService().Delete(c.Request.Context(), userID, id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

func UpdateInvoiceStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	var input StatusInput
	if !bindJSON(c, &input) {
		return
	}

	invoice, err := invoiceService().UpdateStatus(c.Request.Context(), userID, id, input.Status)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenters.Invoice(invoice, presenterOptions()))
}

// CloneInvoice copies an invoice into a new draft with a fresh number
func CloneInvoice(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := invoiceService().Clone(c.Request.Context(), userID, id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, presenters.Invoice(invoice, presenterOptions()))
}

func AddInvoicePayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	var input services.PaymentInput
	if !bindJSON(c, &input) {
		return
	}

	payment, err := invoiceService().AddPayment(c.Request.Context(), userID, id, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func GetInvoicePayments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	payments, err := invoiceService().Payments(c.Request.Context(), userID, id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payments})
}
