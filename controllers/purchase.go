package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicehub-backend/config"
	"invoicehub-backend/presenters"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

func purchaseService() *services.PurchaseService {
	return services.NewPurchaseService(config.DB)
}

func supplierPaymentService() *services.SupplierPaymentService {
	return services.NewSupplierPaymentService(config.DB)
}

// CreatePurchase records received goods; a positive paidAmount also records the first payment
func CreatePurchase(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.PurchaseInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	purchase, err := purchaseService().Create(c.Request.Context(), userID, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Commit()

	c.JSON(http.StatusCreated, presenters.Purchase(purchase, presenterOptions()))
}

func GetPurchases(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := listFilter(c, "vendorId")
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	purchases, total, err := purchaseService().List(c.Request.Context(), userID, f, p)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.Paged(presenters.Purchases(purchases, presenterOptions()), total, p))
}

func GetPurchase(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "purchase")
	if !ok {
		return
	}

	purchase, err := purchaseService().Get(c.Request.Context(), userID, id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenters.Purchase(purchase, presenterOptions()))
}

func UpdatePurchase(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "purchase")
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.PurchaseInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	purchase, obsolete, err := purchaseService().Update(c.Request.Context(), userID, id, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Replace(obsolete)
	uploads.Commit()

	c.JSON(http.StatusOK, presenters.Purchase(purchase, presenterOptions()))
}

func DeletePurchase(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "purchase")
	if !ok {
		return
	}

	if err := purchaseService().Delete(c.Request.Context(), userID, id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase deleted successfully"})
}

// CreateSupplierPayment pays part or all of a purchase balance
func CreateSupplierPayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.SupplierPaymentInput
	if !bindJSON(c, &input) {
		return
	}

	payment, err := supplierPaymentService().Create(c.Request.Context(), userID, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, presenters.SupplierPayment(payment))
}

// GetSupplierPayments lists payments, optionally for one ?purchaseId
func GetSupplierPayments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := listFilter(c, "vendorId")
	if !ok {
		return
	}
	var purchaseID *uuid.UUID
	if raw := c.Query("purchaseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid purchaseId")
			return
		}
		purchaseID = &id
	}
	p := utils.GetPagination(c)

	payments, total, err := supplierPaymentService().List(c.Request.Context(), userID, f, purchaseID, p)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.Paged(presenters.SupplierPayments(payments), total, p))
}

func GetSupplierPayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "supplier payment")
	if !ok {
		return
	}

	payment, err := supplierPaymentService().Get(c.Request.Context(), userID, id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenters.SupplierPayment(payment))
}

// DeleteSupplierPayment removes a payment and puts its amount back on the purchase balance
func DeleteSupplierPayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "supplier payment")
	if !ok {
		return
	}

	if err := supplierPaymentService().Delete(c.Request.Context(), userID, id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier payment deleted successfully"})
}
