package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

type CategoryInput struct {
	Name     string     `json:"name" binding:"required"`
	Slug     string     `json:"slug"`
	ParentID *uuid.UUID `json:"parentId"`
}

type BrandInput struct {
	Name string `json:"name" binding:"required"`
}

type UnitInput struct {
	Name   string `json:"name" binding:"required"`
	Symbol string `json:"symbol"`
}

// productReferences counts live products pointing at a catalog row through column.
func productReferences(userID, id uuid.UUID, column string) (int64, error) {
	var count int64
	err := config.DB.Model(&models.Product{}).
		Where("user_id = ? AND is_deleted = ? AND "+column+" = ?", userID, false, id).
		Count(&count).Error
	return count, err
}

// deleteCatalogRow hard deletes an owned row of T unless a live product still references it.
func deleteCatalogRow[T any](c *gin.Context, column, what string) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", what)
	if !ok {
		return
	}

	var row T
	if err := config.DB.Where("user_id = ? AND id = ?", userID, id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, what+" not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return
	}

	refs, err := productReferences(userID, id, column)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	if refs > 0 {
		utils.RespondWithError(c, http.StatusConflict, what+" is used by existing products")
		return
	}

	if err := config.DB.Delete(&row).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete "+what)
		return
	}
	switch r := any(&row).(type) {
	case *models.Category:
		utils.RemoveUploads(r.Image)
	case *models.Brand:
		utils.RemoveUploads(r.Image)
	}

	c.JSON(http.StatusOK, gin.H{"message": what + " deleted successfully"})
}

// listCatalog pages through the owner's rows of T, filtered by ?search on name.
func listCatalog[T any](c *gin.Context, what string) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	query := config.DB.Model(new(T)).Where("user_id = ?", userID)
	if pattern, ok := utils.SearchPattern(c); ok {
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var rows []T
	if err := query.Order("name ASC").Offset(p.Offset()).Limit(p.Limit).Find(&rows).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve "+what)
		return
	}

	c.JSON(http.StatusOK, utils.Paged(rows, total, p))
}

// findCatalogRow loads an owned row of T named by the :id parameter.
func findCatalogRow[T any](c *gin.Context, userID uuid.UUID, what string) (*T, bool) {
	id, ok := paramID(c, "id", what)
	if !ok {
		return nil, false
	}
	var row T
	if err := config.DB.Where("user_id = ? AND id = ?", userID, id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, what+" not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return nil, false
	}
	return &row, true
}

func checkParentCategory(c *gin.Context, userID uuid.UUID, parentID *uuid.UUID, self uuid.UUID) bool {
	if parentID == nil {
		return true
	}
	if *parentID == self {
		utils.RespondWithError(c, http.StatusBadRequest, "Category cannot be its own parent")
		return false
	}
	var count int64
	if err := config.DB.Model(&models.Category{}).Where("user_id = ? AND id = ?", userID, *parentID).Count(&count).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return false
	}
	if count == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Parent category not found")
		return false
	}
	return true
}

// CreateCategory creates a category with an optional image upload
func CreateCategory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input CategoryInput
	if !bindPayload(c, &input) {
		return
	}
	if !checkParentCategory(c, userID, input.ParentID, uuid.Nil) {
		return
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "image", "categories")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	slug := input.Slug
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}
	category := models.Category{
		UserID:   userID,
		Name:     input.Name,
		Slug:     slug,
		Image:    image,
		ParentID: input.ParentID,
	}
	if err := config.DB.Create(&category).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	uploads.Commit()

	category.Image = presenterOptions().Image(category.Image)
	c.JSON(http.StatusCreated, category)
}

func GetCategories(c *gin.Context) {
	listCatalog[models.Category](c, "categories")
}

func GetCategory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	category, ok := findCatalogRow[models.Category](c, userID, "Category")
	if !ok {
		return
	}
	category.Image = presenterOptions().Image(category.Image)
	c.JSON(http.StatusOK, category)
}

// UpdateCategory replaces the category fields; a new image replaces the stored one.
func UpdateCategory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input CategoryInput
	if !bindPayload(c, &input) {
		return
	}
	category, ok := findCatalogRow[models.Category](c, userID, "Category")
	if !ok {
		return
	}
	if !checkParentCategory(c, userID, input.ParentID, category.ID) {
		return
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "image", "categories")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if image != "" {
		uploads.Replace(category.Image)
		category.Image = image
	}

	category.Name = input.Name
	category.Slug = input.Slug
	if category.Slug == "" {
		category.Slug = utils.Slugify(input.Name)
	}
	category.ParentID = input.ParentID
	if err := config.DB.Save(category).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}
	uploads.Commit()

	category.Image = presenterOptions().Image(category.Image)
	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context) {
	deleteCatalogRow[models.Category](c, "category_id", "Category")
}

func CreateBrand(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input BrandInput
	if !bindPayload(c, &input) {
		return
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "image", "brands")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	brand := models.Brand{UserID: userID, Name: input.Name, Image: image}
	if err := config.DB.Create(&brand).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	uploads.Commit()

	brand.Image = presenterOptions().Image(brand.Image)
	c.JSON(http.StatusCreated, brand)
}

func GetBrands(c *gin.Context) {
	listCatalog[models.Brand](c, "brands")
}

func GetBrand(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	brand, ok := findCatalogRow[models.Brand](c, userID, "Brand")
	if !ok {
		return
	}
	brand.Image = presenterOptions().Image(brand.Image)
	c.JSON(http.StatusOK, brand)
}

func UpdateBrand(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input BrandInput
	if !bindPayload(c, &input) {
		return
	}
	brand, ok := findCatalogRow[models.Brand](c, userID, "Brand")
	if !ok {
		return
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "image", "brands")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if image != "" {
		uploads.Replace(brand.Image)
		brand.Image = image
	}

	brand.Name = input.Name
	if err := config.DB.Save(brand).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update brand")
		return
	}
	uploads.Commit()

	brand.Image = presenterOptions().Image(brand.Image)
	c.JSON(http.StatusOK, brand)
}

func DeleteBrand(c *gin.Context) {
	deleteCatalogRow[models.Brand](c, "brand_id", "Brand")
}

func CreateUnit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input UnitInput
	if !bindJSON(c, &input) {
		return
	}

	unit := models.Unit{UserID: userID, Name: input.Name, Symbol: input.Symbol}
	if err := config.DB.Create(&unit).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, unit)
}

func GetUnits(c *gin.Context) {
	listCatalog[models.Unit](c, "units")
}

func GetUnit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	unit, ok := findCatalogRow[models.Unit](c, userID, "Unit")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, unit)
}

func UpdateUnit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input UnitInput
	if !bindJSON(c, &input) {
		return
	}
	unit, ok := findCatalogRow[models.Unit](c, userID, "Unit")
	if !ok {
		return
	}

	unit.Name = input.Name
	unit.Symbol = input.Symbol
	if err := config.DB.Save(unit).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update unit")
		return
	}

	c.JSON(http.StatusOK, unit)
}

func DeleteUnit(c *gin.Context) {
	deleteCatalogRow[models.Unit](c, "unit_id", "Unit")
}
