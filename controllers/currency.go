package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

type CurrencyInput struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required,max=10"`
	Symbol    string `json:"symbol" binding:"max=10"`
	IsDefault bool   `json:"isDefault"`
	IsActive  *bool  `json:"isActive"`
}

func currencyCodeTaken(code string, except uuid.UUID) (bool, error) {
	var count int64
	err := config.DB.Model(&models.Currency{}).
		Where("UPPER(code) = ? AND id <> ?", strings.ToUpper(code), except).
		Count(&count).Error
	return count > 0, err
}

// saveCurrency writes the currency and settles the global default in one transaction.
func saveCurrency(c *gin.Context, currency *models.Currency, makeDefault, create bool) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if create {
			err = tx.Create(currency).Error
		} else {
			err = tx.Model(currency).Select("name", "code", "symbol", "is_active").Updates(currency).Error
		}
		if err != nil {
			return utils.Internal(err)
		}
		if makeDefault {
			return services.SetDefaultCurrency(c.Request.Context(), tx, currency.ID)
		}
		return services.ReassignDefaultCurrency(c.Request.Context(), tx)
	})
}

func CreateCurrency(c *gin.Context) {
	var input CurrencyInput
	if !bindJSON(c, &input) {
		return
	}

	taken, err := currencyCodeTaken(input.Code, uuid.Nil)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "Currency with this code already exists")
		return
	}

	currency := models.Currency{
		Name:     input.Name,
		Code:     strings.ToUpper(input.Code),
		Symbol:   input.Symbol,
		IsActive: true,
	}
	if input.IsActive != nil {
		currency.IsActive = *input.IsActive
	}
	if err := saveCurrency(c, &currency, input.IsDefault, true); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	config.DB.First(&currency, "id = ?", currency.ID)
	c.JSON(http.StatusCreated, currency)
}

// GetCurrencies lists the global currency table
func GetCurrencies(c *gin.Context) {
	p := utils.GetPagination(c)

	query := config.DB.Model(&models.Currency{})
	if pattern, ok := utils.SearchPattern(c); ok {
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var currencies []models.Currency
	if err := query.Order("is_default DESC, code ASC").Offset(p.Offset()).Limit(p.Limit).Find(&currencies).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve currencies")
		return
	}

	c.JSON(http.StatusOK, utils.Paged(currencies, total, p))
}

func findCurrency(c *gin.Context) (*models.Currency, bool) {
	id, ok := paramID(c, "id", "currency")
	if !ok {
		return nil, false
	}
	var currency models.Currency
	if err := config.DB.First(&currency, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Currency not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return nil, false
	}
	return &currency, true
}

func GetCurrency(c *gin.Context) {
	currency, ok := findCurrency(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, currency)
}

func UpdateCurrency(c *gin.Context) {
	var input CurrencyInput
	if !bindJSON(c, &input) {
		return
	}
	currency, ok := findCurrency(c)
	if !ok {
		return
	}

	taken, err := currencyCodeTaken(input.Code, currency.ID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "Currency with this code already exists")
		return
	}

	currency.Name = input.Name
	currency.Code = strings.ToUpper(input.Code)
	currency.Symbol = input.Symbol
	if input.IsActive != nil {
		currency.IsActive = *input.IsActive
	}
	if err := saveCurrency(c, currency, input.IsDefault, false); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	config.DB.First(currency, "id = ?", currency.ID)
	c.JSON(http.StatusOK, currency)
}

// DeleteCurrency removes a currency; removing the default promotes the next active one.
func DeleteCurrency(c *gin.Context) {
	currency, ok := findCurrency(c)
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(currency).Error; err != nil {
			return utils.Internal(err)
		}
		return services.ReassignDefaultCurrency(c.Request.Context(), tx)
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Currency deleted successfully"})
}
