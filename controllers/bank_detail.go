package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

type BankDetailInput struct {
	BankName          string `json:"bankName" binding:"required"`
	AccountHolderName string `json:"accountHolderName" binding:"required"`
	AccountNumber     string `json:"accountNumber" binding:"required"`
	IFSCCode          string `json:"IFSCCode"`
	BranchName        string `json:"branchName"`
}

func CreateBankDetail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input BankDetailInput
	if !bindJSON(c, &input) {
		return
	}

	detail := models.BankDetail{
		UserID:            userID,
		BankName:          input.BankName,
		AccountHolderName: input.AccountHolderName,
		AccountNumber:     input.AccountNumber,
		IFSCCode:          input.IFSCCode,
		BranchName:        input.BranchName,
	}
	if err := config.DB.Create(&detail).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, detail)
}

func GetBankDetails(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	query := config.DB.Model(&models.BankDetail{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if pattern, ok := utils.SearchPattern(c); ok {
		query = query.Where("LOWER(bank_name) LIKE ? OR LOWER(account_holder_name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var details []models.BankDetail
	if err := query.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&details).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bank details")
		return
	}

	c.JSON(http.StatusOK, utils.Paged(details, total, p))
}

func GetBankDetail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "bank detail")
	if !ok {
		return
	}

	var detail models.BankDetail
	if err := config.DB.Where("user_id = ? AND id = ?", userID, id).First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Bank detail not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return
	}

	c.JSON(http.StatusOK, detail)
}

func UpdateBankDetail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "bank detail")
	if !ok {
		return
	}

	var input BankDetailInput
	if !bindJSON(c, &input) {
		return
	}

	result := config.DB.Model(&models.BankDetail{}).
		Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).
		Updates(map[string]interface{}{
			"bank_name":           input.BankName,
			"account_holder_name": input.AccountHolderName,
			"account_number":      input.AccountNumber,
			"ifsc_code":           input.IFSCCode,
			"branch_name":         input.BranchName,
		})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update bank detail")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Bank detail not found")
		return
	}

	var detail models.BankDetail
	config.DB.First(&detail, "id = ?", id)
	c.JSON(http.StatusOK, detail)
}

func DeleteBankDetail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "bank detail")
	if !ok {
		return
	}

	result := config.DB.Model(&models.BankDetail{}).
		Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete bank detail")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Bank detail not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bank detail deleted successfully"})
}
