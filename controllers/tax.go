package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

type TaxRateInput struct {
	Name   string          `json:"name" binding:"required"`
	Rate   decimal.Decimal `json:"taxRate"`
	Status *bool           `json:"status"`
}

type TaxGroupInput struct {
	Name       string      `json:"name" binding:"required"`
	TaxRateIDs []uuid.UUID `json:"taxRates" binding:"required,min=1"`
	Status     *bool       `json:"status"`
}

func (in *TaxRateInput) validate() *utils.AppError {
	if in.Rate.IsNegative() || in.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return utils.ValidationError(map[string]string{"taxRate": "must be between 0 and 100"})
	}
	return nil
}

func CreateTaxRate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input TaxRateInput
	if !bindJSON(c, &input) {
		return
	}
	if appErr := input.validate(); appErr != nil {
		utils.RespondWithAppError(c, appErr)
		return
	}

	rate := models.TaxRate{UserID: userID, Name: input.Name, Rate: input.Rate, Status: true}
	if input.Status != nil {
		rate.Status = *input.Status
	}
	if err := config.DB.Create(&rate).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, rate)
}

func GetTaxRates(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	query := config.DB.Model(&models.TaxRate{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if pattern, ok := utils.SearchPattern(c); ok {
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var rates []models.TaxRate
	if err := query.Order("name ASC").Offset(p.Offset()).Limit(p.Limit).Find(&rates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tax rates")
		return
	}

	c.JSON(http.StatusOK, utils.Paged(rates, total, p))
}

func GetTaxRate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	rate, ok := findCatalogRow[models.TaxRate](c, userID, "Tax rate")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rate)
}

func UpdateTaxRate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input TaxRateInput
	if !bindJSON(c, &input) {
		return
	}
	if appErr := input.validate(); appErr != nil {
		utils.RespondWithAppError(c, appErr)
		return
	}

	rate, ok := findCatalogRow[models.TaxRate](c, userID, "Tax rate")
	if !ok {
		return
	}
	if rate.IsDeleted {
		utils.RespondWithError(c, http.StatusNotFound, "Tax rate not found")
		return
	}

	rate.Name = input.Name
	rate.Rate = input.Rate
	if input.Status != nil {
		rate.Status = *input.Status
	}
	if err := config.DB.Save(rate).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update tax rate")
		return
	}

	c.JSON(http.StatusOK, rate)
}

// DeleteTaxRate soft deletes a tax rate; products keep their reference.
func DeleteTaxRate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tax rate")
	if !ok {
		return
	}

	result := config.DB.Model(&models.TaxRate{}).
		Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete tax rate")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Tax rate not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tax rate deleted successfully"})
}

// loadTaxRates resolves the member rates of a group; every id must be a live rate of the owner.
func loadTaxRates(c *gin.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.TaxRate, bool) {
	var rates []models.TaxRate
	if err := config.DB.Where("user_id = ? AND is_deleted = ? AND id IN ?", userID, false, ids).Find(&rates).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return nil, false
	}
	found := make(map[uuid.UUID]bool, len(rates))
	for _, r := range rates {
		found[r.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			utils.RespondWithError(c, http.StatusNotFound, "Tax rate "+id.String()+" not found")
			return nil, false
		}
	}
	return rates, true
}

func taxGroupResponse(g *models.TaxGroup) gin.H {
	return gin.H{
		"id":        g.ID,
		"name":      g.Name,
		"status":    g.Status,
		"taxRates":  g.TaxRates,
		"totalRate": g.TotalRate(),
		"isDeleted": g.IsDeleted,
		"createdAt": g.CreatedAt,
	}
}

func findTaxGroup(c *gin.Context, userID uuid.UUID) (*models.TaxGroup, bool) {
	id, ok := paramID(c, "id", "tax group")
	if !ok {
		return nil, false
	}
	var group models.TaxGroup
	err := config.DB.Preload("TaxRates").
		Where("user_id = ? AND id = ?", userID, id).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Tax group not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return nil, false
	}
	return &group, true
}

func CreateTaxGroup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input TaxGroupInput
	if !bindJSON(c, &input) {
		return
	}
	rates, ok := loadTaxRates(c, userID, input.TaxRateIDs)
	if !ok {
		return
	}

	group := models.TaxGroup{UserID: userID, Name: input.Name, Status: true, TaxRates: rates}
	if input.Status != nil {
		group.Status = *input.Status
	}
	// Member rates already exist, only the join rows are written.
	if err := config.DB.Omit("TaxRates.*").Create(&group).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, taxGroupResponse(&group))
}

func GetTaxGroups(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	query := config.DB.Model(&models.TaxGroup{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if pattern, ok := utils.SearchPattern(c); ok {
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var groups []models.TaxGroup
	if err := query.Preload("TaxRates").Order("name ASC").Offset(p.Offset()).Limit(p.Limit).Find(&groups).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tax groups")
		return
	}

	data := make([]gin.H, 0, len(groups))
	for i := range groups {
		data = append(data, taxGroupResponse(&groups[i]))
	}
	c.JSON(http.StatusOK, utils.Paged(data, total, p))
}

func GetTaxGroup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	group, ok := findTaxGroup(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, taxGroupResponse(group))
}

func UpdateTaxGroup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input TaxGroupInput
	if !bindJSON(c, &input) {
		return
	}
	group, ok := findTaxGroup(c, userID)
	if !ok {
		return
	}
	if group.IsDeleted {
		utils.RespondWithError(c, http.StatusNotFound, "Tax group not found")
		return
	}
	rates, ok := loadTaxRates(c, userID, input.TaxRateIDs)
	if !ok {
		return
	}

	group.Name = input.Name
	if input.Status != nil {
		group.Status = *input.Status
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("TaxRates").Save(group).Error; err != nil {
			return err
		}
		return tx.Model(group).Omit("TaxRates.*").Association("TaxRates").Replace(rates)
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update tax group")
		return
	}
	group.TaxRates = rates

	c.JSON(http.StatusOK, taxGroupResponse(group))
}

func DeleteTaxGroup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tax group")
	if !ok {
		return
	}

	result := config.DB.Model(&models.TaxGroup{}).
		Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete tax group")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Tax group not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tax group deleted successfully"})
}
