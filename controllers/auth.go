package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

type RegisterInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userResponse(user *models.User) gin.H {
	opts := presenterOptions()
	return gin.H{
		"id":                 user.ID,
		"firstName":          user.FirstName,
		"lastName":           user.LastName,
		"fullName":           user.FullName(),
		"email":              user.Email,
		"phone":              user.Phone,
		"image":              opts.Image(user.Image),
		"role":               user.Role,
		"defaultCurrency":    user.DefaultCurrency,
		"defaultSignatureId": user.DefaultSignatureID,
		"lastLogin":          user.LastLogin,
	}
}

// Register creates an account and signs the caller in
func Register(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithAppError(c, utils.ValidationError(map[string]string{"phone": "must be a valid phone number"}))
		return
	}

	// Check if email already exists
	var existing models.User
	result := config.DB.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithAppError(c, utils.Internal(result.Error))
		return
	}

	// New accounts start with the current global default currency
	var currency models.Currency
	defaultCurrency := ""
	if err := config.DB.Where("is_default = ?", true).First(&currency).Error; err == nil {
		defaultCurrency = currency.Code
	}

	user := models.User{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           email,
		Password:        input.Password, // Will be hashed in BeforeCreate hook
		Phone:           input.Phone,
		Role:            "admin",
		DefaultCurrency: defaultCurrency,
		IsActive:        true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Email)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    userResponse(&user),
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	var user models.User
	result := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithAppError(c, utils.Internal(result.Error))
		}
		return
	}

	if !user.IsActive || !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Email)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Update last login
	now := time.Now().UTC()
	config.DB.Model(&user).Update("last_login", &now)
	user.LastLogin = &now

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(&user),
	})
}

func Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
}
