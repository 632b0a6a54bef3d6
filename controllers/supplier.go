package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

type SupplierInput struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Phone       string          `json:"phone"`
	Address     models.Address  `json:"address"`
	Balance     decimal.Decimal `json:"balance"`
	BalanceType string          `json:"balanceType" binding:"omitempty,oneof=credit debit"`
}

func CreateSupplier(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input SupplierInput
	if !bindJSON(c, &input) {
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithAppError(c, utils.ValidationError(map[string]string{"phone": "must be a valid phone number"}))
		return
	}

	supplier := models.Supplier{
		UserID:      userID,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		Balance:     input.Balance,
		BalanceType: input.BalanceType,
	}
	if err := config.DB.Create(&supplier).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

func GetSuppliers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	query := config.DB.Model(&models.Supplier{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if pattern, ok := utils.SearchPattern(c); ok {
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var suppliers []models.Supplier
	if err := query.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&suppliers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve suppliers")
		return
	}

	c.JSON(http.StatusOK, utils.Paged(suppliers, total, p))
}

func GetSupplier(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "supplier")
	if !ok {
		return
	}

	var supplier models.Supplier
	if err := config.DB.Where("user_id = ? AND id = ?", userID, id).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Supplier not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return
	}

	c.JSON(http.StatusOK, supplier)
}

func UpdateSupplier(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "supplier")
	if !ok {
		return
	}

	var input SupplierInput
	if !bindJSON(c, &input) {
		return
	}

	var supplier models.Supplier
	if err := config.DB.Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Supplier not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return
	}

	supplier.Name = input.Name
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.Address = input.Address
	supplier.Balance = input.Balance
	supplier.BalanceType = input.BalanceType
	if err := config.DB.Save(&supplier).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update supplier")
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier soft deletes a supplier
func DeleteSupplier(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "supplier")
	if !ok {
		return
	}

	result := config.DB.Model(&models.Supplier{}).
		Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete supplier")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Supplier not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}
