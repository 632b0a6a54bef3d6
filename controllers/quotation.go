package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicehub-backend/config"
	"invoicehub-backend/presenters"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

func quotationService() *services.QuotationService {
	return services.NewQuotationService(config.DB)
}

func CreateQuotation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.QuotationInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	quotation, err := quotationService().Create(c.Request.Context(), userID, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Commit()

	c.JSON(http.StatusCreated, presenters.Quotation(quotation, presenterOptions()))
}

func GetQuotations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := listFilter(c, "customerId")
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	quotations, total, err := quotationService().List(c.Request.Context(), userID, f, p)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.Paged(presenters.Quotations(quotations, presenterOptions()), total, p))
}

func GetQuotation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quotation")
	if !ok {
		return
	}

	quotation, err := quotationService().Get(c.Request.Context(), userID, id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenters.Quotation(quotation, presenterOptions()))
}

func UpdateQuotation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quotation")
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.QuotationInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	quotation, obsolete, err := quotationService().Update(c.Request.Context(), userID, id, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Replace(obsolete)
	uploads.Commit()

	c.JSON(http.StatusOK, presenters.Quotation(quotation, presenterOptions()))
}

func DeleteQuotation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quotation")
	if !ok {
		return
	}

	if err := quotationService().Delete(c.Request.Context(), userID, id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quotation deleted successfully"})
}

// ConvertQuotation turns a quotation into an invoice or a purchase
func ConvertQuotation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quotation")
	if !ok {
		return
	}

	var input services.ConvertInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := quotationService().Convert(c.Request.Context(), userID, id, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	opts := presenterOptions()
	if result.Invoice != nil {
		c.JSON(http.StatusCreated, gin.H{"convertType": services.ConvertToInvoice, "invoice": presenters.Invoice(result.Invoice, opts)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"convertType": services.ConvertToPurchase, "purchase": presenters.Purchase(result.Purchase, opts)})
}
