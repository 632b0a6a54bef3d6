package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

type CompanySettingsInput struct {
	CompanyName string         `json:"companyName" binding:"required"`
	Email       string         `json:"email" binding:"omitempty,email"`
	Phone       string         `json:"phone"`
	Address     models.Address `json:"address"`
}

type EmailSettingsInput struct {
	Provider   string `json:"provider" binding:"required"`
	Host       string `json:"host"`
	Port       int    `json:"port" binding:"min=0,max=65535"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Encryption string `json:"encryption" binding:"omitempty,oneof=none ssl tls"`
	FromEmail  string `json:"fromEmail" binding:"omitempty,email"`
	FromName   string `json:"fromName"`
}

type LocalizationInput struct {
	Language       string `json:"language"`
	Timezone       string `json:"timezone"`
	DateFormat     string `json:"dateFormat"`
	TimeFormat     string `json:"timeFormat"`
	CurrencySymbol string `json:"currencySymbol"`
	FinancialYear  string `json:"financialYear"`
}

type InvoiceTemplateInput struct {
	DefaultTemplate string         `json:"default_invoice_template" binding:"required"`
	Options         datatypes.JSON `json:"options"`
}

// loadSettings fetches the owner's settings row of T. found is false when none is stored yet.
func loadSettings[T any](userID uuid.UUID) (row T, found bool, err error) {
	err = config.DB.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, false, nil
	}
	return row, err == nil, err
}

func companyResponse(s *models.CompanySettings) gin.H {
	opts := presenterOptions()
	return gin.H{
		"companyName": s.CompanyName,
		"email":       s.Email,
		"phone":       s.Phone,
		"address":     s.Address,
		"siteLogo":    opts.Image(s.Logo),
		"favicon":     opts.Image(s.Favicon),
	}
}

func GetCompanySettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	settings, _, err := loadSettings[models.CompanySettings](userID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, companyResponse(&settings))
}

// UpdateCompanySettings upserts the company profile. "siteLogo" and "favicon" files
// replace the stored images.
func UpdateCompanySettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input CompanySettingsInput
	if !bindPayload(c, &input) {
		return
	}

	settings, _, err := loadSettings[models.CompanySettings](userID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	uploads := &utils.Uploads{}
	for field, dst := range map[string]*string{"siteLogo": &settings.Logo, "favicon": &settings.Favicon} {
		path, err := uploads.Save(c, field, "company")
		if err != nil {
			uploads.Rollback()
			utils.RespondWithAppError(c, err)
			return
		}
		if path != "" {
			uploads.Replace(*dst)
			*dst = path
		}
	}

	settings.UserID = userID
	settings.CompanyName = input.CompanyName
	settings.Email = input.Email
	settings.Phone = input.Phone
	settings.Address = input.Address
	if err := config.DB.Save(&settings).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	uploads.Commit()

	c.JSON(http.StatusOK, companyResponse(&settings))
}

func GetEmailSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	settings, found, err := loadSettings[models.EmailSettings](userID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	if !found {
		settings = models.EmailSettings{Provider: "smtp", Port: 587, Encryption: "tls"}
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateEmailSettings upserts the mail transport. An empty password keeps the stored one.
func UpdateEmailSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input EmailSettingsInput
	if !bindJSON(c, &input) {
		return
	}

	settings, _, err := loadSettings[models.EmailSettings](userID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	settings.UserID = userID
	settings.Provider = input.Provider
	settings.Host = input.Host
	settings.Port = input.Port
	settings.Username = input.Username
	if input.Password != "" {
		settings.Password = input.Password
	}
	settings.Encryption = input.Encryption
	settings.FromEmail = input.FromEmail
	settings.FromName = input.FromName
	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusOK, settings)
}

func GetLocalization(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	settings, found, err := loadSettings[models.Localization](userID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	if !found {
		settings = models.Localization{
			Language:      "en",
			Timezone:      "UTC",
			DateFormat:    "02, Jan 2006",
			TimeFormat:    "15:04",
			FinancialYear: "january-december",
		}
	}
	c.JSON(http.StatusOK, settings)
}

func UpdateLocalization(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input LocalizationInput
	if !bindJSON(c, &input) {
		return
	}

	settings, _, err := loadSettings[models.Localization](userID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	settings.UserID = userID
	settings.Language = input.Language
	settings.Timezone = input.Timezone
	settings.DateFormat = input.DateFormat
	settings.TimeFormat = input.TimeFormat
	settings.CurrencySymbol = input.CurrencySymbol
	settings.FinancialYear = input.FinancialYear
	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusOK, settings)
}

func GetInvoiceTemplate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	settings, found, err := loadSettings[models.InvoiceTemplate](userID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	if !found {
		settings = models.InvoiceTemplate{DefaultTemplate: "default", Options: datatypes.JSON("{}")}
	}
	c.JSON(http.StatusOK, settings)
}

func UpdateInvoiceTemplate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input InvoiceTemplateInput
	if !bindJSON(c, &input) {
		return
	}

	settings, _, err := loadSettings[models.InvoiceTemplate](userID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	settings.UserID = userID
	settings.DefaultTemplate = input.DefaultTemplate
	settings.Options = input.Options
	if len(settings.Options) == 0 {
		settings.Options = datatypes.JSON("{}")
	}
	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusOK, settings)
}
