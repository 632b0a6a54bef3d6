package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicehub-backend/config"
	"invoicehub-backend/presenters"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

func purchaseOrderService() *services.PurchaseOrderService {
	return services.NewPurchaseOrderService(config.DB)
}

func CreatePurchaseOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.PurchaseOrderInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	order, err := purchaseOrderService().Create(c.Request.Context(), userID, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Commit()

	c.JSON(http.StatusCreated, presenters.PurchaseOrder(order, presenterOptions()))
}

func GetPurchaseOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := listFilter(c, "vendorId")
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	orders, total, err := purchaseOrderService().List(c.Request.Context(), userID, f, p)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.Paged(presenters.PurchaseOrders(orders, presenterOptions()), total, p))
}

func GetPurchaseOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "purchase order")
	if !ok {
		return
	}

	order, err := purchaseOrderService().Get(c.Request.Context(), userID, id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenters.PurchaseOrder(order, presenterOptions()))
}

// UpdatePurchaseOrder edits a pending purchase order
func UpdatePurchaseOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "purchase order")
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	var input services.PurchaseOrderInput
	if !bindDocument(c, &input, &input.DocumentInput, uploads) {
		return
	}

	order, obsolete, err := purchaseOrderService().Update(c.Request.Context(), userID, id, input)
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Replace(obsolete)
	uploads.Commit()

	c.JSON(http.StatusOK, presenters.PurchaseOrder(order, presenterOptions()))
}

func DeletePurchaseOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "purchase order")
	if !ok {
		return
	}

	if err := purchaseOrderService().Delete(c.Request.Context(), userID, id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase order deleted successfully"})
}

// ConvertPurchaseOrder receives the ordered goods as a purchase
func ConvertPurchaseOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "purchase order")
	if !ok {
		return
	}

	purchase, err := purchaseOrderService().Convert(c.Request.Context(), userID, id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, presenters.Purchase(purchase, presenterOptions()))
}
