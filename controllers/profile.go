package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

type UpdateProfileInput struct {
	FirstName *string `form:"firstName" json:"firstName"`
	LastName  *string `form:"lastName" json:"lastName"`
	Phone     *string `form:"phone" json:"phone"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// UpdateProfile changes the user's name, phone and image. The previous image is removed
// once the update is stored.
func UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if !bindForm(c, &input) {
		return
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "image", "profiles")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	// Update fields if provided
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			uploads.Rollback()
			utils.RespondWithAppError(c, utils.ValidationError(map[string]string{"phone": "must be a valid phone number"}))
			return
		}
		user.Phone = *input.Phone
	}
	if image != "" {
		uploads.Replace(user.Image)
		user.Image = image
	}

	if err := config.DB.Model(&user).Select("first_name", "last_name", "phone", "image").Updates(&user).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	uploads.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": userResponse(&user)})
}

func ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}
	if !utils.CheckPasswordHash(input.OldPassword, user.Password) {
		utils.RespondWithError(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).Update("password", hashed).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
