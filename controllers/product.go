package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/presenters"
	"invoicehub-backend/utils"
)

// ProductInput defines the expected structure for creating or updating a product
type ProductInput struct {
	Type          string          `json:"type" binding:"required,oneof=product service"`
	Name          string          `json:"name" binding:"required"`
	SKU           string          `json:"sku" binding:"required"`
	CategoryID    *uuid.UUID      `json:"categoryId"`
	BrandID       *uuid.UUID      `json:"brandId"`
	UnitID        *uuid.UUID      `json:"unitId"`
	TaxID         *uuid.UUID      `json:"taxId"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	DiscountType  string          `json:"discountType" binding:"omitempty,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	AlertQuantity decimal.Decimal `json:"alertQuantity"`
	Barcode       string          `json:"barcode"`
	Description   string          `json:"productDescription"`
}

func (in *ProductInput) validate() *utils.AppError {
	fields := map[string]string{}
	for name, v := range map[string]decimal.Decimal{
		"sellingPrice":  in.SellingPrice,
		"purchasePrice": in.PurchasePrice,
		"discountValue": in.DiscountValue,
		"alertQuantity": in.AlertQuantity,
	} {
		if v.IsNegative() {
			fields[name] = "must not be negative"
		}
	}
	if in.DiscountType == models.DiscountPercentage && in.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		fields["discountValue"] = "must not exceed 100 percent"
	}
	if len(fields) > 0 {
		return utils.ValidationError(fields)
	}
	return nil
}

// checkProductRefs verifies that every referenced catalog row exists for the owner.
func checkProductRefs(c *gin.Context, userID uuid.UUID, in *ProductInput) bool {
	refs := []struct {
		id    *uuid.UUID
		model interface{}
		what  string
		live  bool
	}{
		{in.CategoryID, &models.Category{}, "Category", false},
		{in.BrandID, &models.Brand{}, "Brand", false},
		{in.UnitID, &models.Unit{}, "Unit", false},
		{in.TaxID, &models.TaxRate{}, "Tax", true},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		query := config.DB.Model(ref.model).Where("user_id = ? AND id = ?", userID, *ref.id)
		if ref.live {
			query = query.Where("is_deleted = ?", false)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			utils.RespondWithAppError(c, utils.Internal(err))
			return false
		}
		if count == 0 {
			utils.RespondWithError(c, http.StatusNotFound, ref.what+" not found")
			return false
		}
	}
	return true
}

func skuTaken(userID uuid.UUID, sku string, except uuid.UUID) (bool, error) {
	var count int64
	err := config.DB.Model(&models.Product{}).
		Where("user_id = ? AND sku = ? AND id <> ?", userID, sku, except).
		Count(&count).Error
	return count > 0, err
}

func productQuery() *gorm.DB {
	return config.DB.Preload("Category").Preload("Brand").Preload("Unit").Preload("Tax")
}

func applyProductInput(p *models.Product, in *ProductInput) {
	p.Type = in.Type
	p.Name = in.Name
	p.SKU = in.SKU
	p.CategoryID = in.CategoryID
	p.BrandID = in.BrandID
	p.UnitID = in.UnitID
	p.TaxID = in.TaxID
	p.SellingPrice = in.SellingPrice
	p.PurchasePrice = in.PurchasePrice
	p.DiscountType = in.DiscountType
	p.DiscountValue = in.DiscountValue
	p.AlertQuantity = in.AlertQuantity
	p.Barcode = in.Barcode
	p.Description = in.Description
	p.Category, p.Brand, p.Unit, p.Tax = nil, nil, nil, nil
}

// validateProduct runs the checks shared by create and update. except is the product being
// updated, uuid.Nil on create.
func validateProduct(c *gin.Context, userID uuid.UUID, in *ProductInput, except uuid.UUID) bool {
	if appErr := in.validate(); appErr != nil {
		utils.RespondWithAppError(c, appErr)
		return false
	}
	if !checkProductRefs(c, userID, in) {
		return false
	}
	taken, err := skuTaken(userID, in.SKU, except)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return false
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "Product with this SKU already exists")
		return false
	}
	return true
}

// CreateProduct creates a product or service; the "image" file is optional
func CreateProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input ProductInput
	if !bindPayload(c, &input) {
		return
	}
	if !validateProduct(c, userID, &input, uuid.Nil) {
		return
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "image", "products")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	product := models.Product{UserID: userID, Image: image}
	applyProductInput(&product, &input)
	if err := config.DB.Create(&product).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	uploads.Commit()

	productQuery().First(&product, "id = ?", product.ID)
	c.JSON(http.StatusCreated, presenters.Product(&product, presenterOptions()))
}

// GetProducts lists live products with optional ?search, ?type and ?categoryId filters
func GetProducts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	query := config.DB.Model(&models.Product{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if pattern, ok := utils.SearchPattern(c); ok {
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid categoryId")
			return
		}
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var products []models.Product
	err := query.Preload("Category").Preload("Brand").Preload("Unit").Preload("Tax").
		Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).
		Find(&products).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, utils.Paged(presenters.Products(products, presenterOptions()), total, p))
}

func findProduct(c *gin.Context, userID uuid.UUID) (*models.Product, bool) {
	id, ok := paramID(c, "id", "product")
	if !ok {
		return nil, false
	}
	var product models.Product
	if err := productQuery().Where("user_id = ? AND id = ?", userID, id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return nil, false
	}
	return &product, true
}

func GetProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	product, ok := findProduct(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, presenters.Product(product, presenterOptions()))
}

func UpdateProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input ProductInput
	if !bindPayload(c, &input) {
		return
	}
	product, ok := findProduct(c, userID)
	if !ok {
		return
	}
	if product.IsDeleted {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}
	if !validateProduct(c, userID, &input, product.ID) {
		return
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "image", "products")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if image != "" {
		uploads.Replace(product.Image)
		product.Image = image
	}

	applyProductInput(product, &input)
	if err := config.DB.Omit(clause.Associations).Save(product).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	uploads.Commit()

	productQuery().First(product, "id = ?", product.ID)
	c.JSON(http.StatusOK, presenters.Product(product, presenterOptions()))
}

// DeleteProduct soft deletes a product. Documents keep their item snapshots.
func DeleteProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "product")
	if !ok {
		return
	}

	result := config.DB.Model(&models.Product{}).
		Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
