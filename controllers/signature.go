package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

type SignatureInput struct {
	SignatureName string `json:"signatureName" binding:"required"`
	MarkAsDefault bool   `json:"markAsDefault"`
	Status        *bool  `json:"status"`
}

func signatureResponse(s *models.Signature) gin.H {
	return gin.H{
		"id":             s.ID,
		"signatureName":  s.SignatureName,
		"signatureImage": presenterOptions().Image(s.SignatureImage),
		"markAsDefault":  s.MarkAsDefault,
		"status":         s.Status,
		"isDeleted":      s.IsDeleted,
		"createdAt":      s.CreatedAt,
	}
}

// CreateSignature stores a signature; the "signatureImage" file is required.
func CreateSignature(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input SignatureInput
	if !bindPayload(c, &input) {
		return
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "signatureImage", "signatures")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if image == "" {
		utils.RespondWithAppError(c, utils.ValidationError(map[string]string{"signatureImage": "is required"}))
		return
	}

	signature := models.Signature{
		UserID:         userID,
		SignatureName:  input.SignatureName,
		SignatureImage: image,
		Status:         true,
	}
	if input.Status != nil {
		signature.Status = *input.Status
	}
	if input.MarkAsDefault && !signature.Status {
		uploads.Rollback()
		utils.RespondWithError(c, http.StatusBadRequest, "Inactive signature cannot be the default")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&signature).Error; err != nil {
			return utils.Internal(err)
		}
		if !input.MarkAsDefault {
			// The first active signature becomes the default.
			return services.ReassignDefaultSignature(c.Request.Context(), tx, userID)
		}
		return services.SetDefaultSignature(c.Request.Context(), tx, userID, signature.ID)
	})
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Commit()

	config.DB.First(&signature, "id = ?", signature.ID)
	c.JSON(http.StatusCreated, signatureResponse(&signature))
}

func GetSignatures(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	query := config.DB.Model(&models.Signature{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if pattern, ok := utils.SearchPattern(c); ok {
		query = query.Where("LOWER(signature_name) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var signatures []models.Signature
	if err := query.Order("mark_as_default DESC, created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&signatures).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve signatures")
		return
	}

	data := make([]gin.H, 0, len(signatures))
	for i := range signatures {
		data = append(data, signatureResponse(&signatures[i]))
	}
	c.JSON(http.StatusOK, utils.Paged(data, total, p))
}

func findSignature(c *gin.Context, userID uuid.UUID) (*models.Signature, bool) {
	id, ok := paramID(c, "id", "signature")
	if !ok {
		return nil, false
	}
	var signature models.Signature
	if err := config.DB.Where("user_id = ? AND id = ?", userID, id).First(&signature).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Signature not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return nil, false
	}
	return &signature, true
}

func GetSignature(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	signature, ok := findSignature(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, signatureResponse(signature))
}

// UpdateSignature renames, (de)activates or re-uploads a signature. Deactivating the default
// hands the default to the next eligible signature.
func UpdateSignature(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input SignatureInput
	if !bindPayload(c, &input) {
		return
	}
	signature, ok := findSignature(c, userID)
	if !ok {
		return
	}
	if signature.IsDeleted {
		utils.RespondWithError(c, http.StatusNotFound, "Signature not found")
		return
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "signatureImage", "signatures")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if image != "" {
		uploads.Replace(signature.SignatureImage)
		signature.SignatureImage = image
	}

	signature.SignatureName = input.SignatureName
	if input.Status != nil {
		signature.Status = *input.Status
	}
	if input.MarkAsDefault && !signature.Status {
		uploads.Rollback()
		utils.RespondWithError(c, http.StatusBadRequest, "Inactive signature cannot be the default")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(signature).Select("signature_name", "signature_image", "status").Updates(signature).Error; err != nil {
			return utils.Internal(err)
		}
		if input.MarkAsDefault {
			return services.SetDefaultSignature(c.Request.Context(), tx, userID, signature.ID)
		}
		return services.ReassignDefaultSignature(c.Request.Context(), tx, userID)
	})
	if err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, err)
		return
	}
	uploads.Commit()

	config.DB.First(signature, "id = ?", signature.ID)
	c.JSON(http.StatusOK, signatureResponse(signature))
}

// SetDefaultSignature marks a signature as the user's only default
func SetDefaultSignature(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	signature, ok := findSignature(c, userID)
	if !ok {
		return
	}
	if signature.IsDeleted || !signature.Status {
		utils.RespondWithError(c, http.StatusBadRequest, "Only active signatures can be the default")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return services.SetDefaultSignature(c.Request.Context(), tx, userID, signature.ID)
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	signature.MarkAsDefault = true
	c.JSON(http.StatusOK, signatureResponse(signature))
}

// DeleteSignature soft deletes a signature. Documents keep their signature snapshot.
func DeleteSignature(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "signature")
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Signature{}).
			Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).
			Update("is_deleted", true)
		if result.Error != nil {
			return utils.Internal(result.Error)
		}
		if result.RowsAffected == 0 {
			return utils.NotFound("Signature not found")
		}
		return services.ReassignDefaultSignature(c.Request.Context(), tx, userID)
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signature deleted successfully"})
}
