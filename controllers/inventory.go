package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoicehub-backend/config"
	"invoicehub-backend/presenters"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

type StockInput struct {
	ProductID uuid.UUID       `json:"productId" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes"`
}

func inventoryService() *services.InventoryService {
	return services.NewInventoryService(config.DB)
}

func GetInventories(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)
	search, _ := utils.SearchPattern(c)

	rows, total, err := inventoryService().List(c.Request.Context(), userID, search, p)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.Paged(presenters.Inventories(rows), total, p))
}

// GetInventory returns the stock of one product with its movement history
func GetInventory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := paramID(c, "productId", "product")
	if !ok {
		return
	}

	inv, err := inventoryService().Get(c.Request.Context(), userID, productID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, presenters.Inventory(inv))
}

// adjustStock applies a manual movement; sign is +1 for stock-in and -1 for stock-out.
func adjustStock(c *gin.Context, sign int64) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input StockInput
	if !bindJSON(c, &input) {
		return
	}
	if !input.Quantity.IsPositive() {
		utils.RespondWithAppError(c, utils.ValidationError(map[string]string{"quantity": "must be greater than 0"}))
		return
	}

	history, err := inventoryService().Adjust(c.Request.Context(), userID, input.ProductID, input.Quantity.Mul(decimal.NewFromInt(sign)), input.Notes)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, history)
}

func StockIn(c *gin.Context) {
	adjustStock(c, 1)
}

func StockOut(c *gin.Context) {
	adjustStock(c, -1)
}
