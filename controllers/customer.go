package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name            string          `json:"name" binding:"required"`
	Email           string          `json:"email" binding:"omitempty,email"`
	Phone           string          `json:"phone"`
	Website         string          `json:"website"`
	Notes           string          `json:"notes"`
	Currency        string          `json:"currency"`
	BillingAddress  models.Address  `json:"billingAddress"`
	ShippingAddress models.Address  `json:"shippingAddress"`
	Balance         decimal.Decimal `json:"balance"`
	Status          string          `json:"status" binding:"omitempty,oneof=active deactive"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name            *string         `json:"name"`
	Email           *string         `json:"email" binding:"omitempty,email"`
	Phone           *string         `json:"phone"`
	Website         *string         `json:"website"`
	Notes           *string         `json:"notes"`
	Currency        *string         `json:"currency"`
	BillingAddress  *models.Address `json:"billingAddress"`
	ShippingAddress *models.Address `json:"shippingAddress"`
	Status          *string         `json:"status" binding:"omitempty,oneof=active deactive"`
}

func customerResponse(cust *models.Customer) gin.H {
	return gin.H{
		"id":              cust.ID,
		"name":            cust.Name,
		"email":           cust.Email,
		"phone":           cust.Phone,
		"website":         cust.Website,
		"notes":           cust.Notes,
		"image":           presenterOptions().Image(cust.Image),
		"currency":        cust.Currency,
		"billingAddress":  cust.BillingAddress,
		"shippingAddress": cust.ShippingAddress,
		"balance":         cust.Balance,
		"status":          cust.Status,
		"isDeleted":       cust.IsDeleted,
		"createdAt":       cust.CreatedAt,
	}
}

// emailTaken reports whether another live customer of the owner uses email.
func emailTaken(userID uuid.UUID, email string, except uuid.UUID) (bool, error) {
	var count int64
	err := config.DB.Model(&models.Customer{}).
		Where("user_id = ? AND LOWER(email) = ? AND is_deleted = ? AND id <> ?", userID, strings.ToLower(email), false, except).
		Count(&count).Error
	return count > 0, err
}

// customerWriteError maps a lost race on the owner/email index to a conflict.
func customerWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.Conflict("Customer with this email already exists")
	}
	return utils.Internal(err)
}

// CreateCustomer creates a new customer for the user
func CreateCustomer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if !bindPayload(c, &input) {
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithAppError(c, utils.ValidationError(map[string]string{"phone": "must be a valid phone number"}))
		return
	}
	if input.Email != "" {
		taken, err := emailTaken(userID, input.Email, uuid.Nil)
		if err != nil {
			utils.RespondWithAppError(c, utils.Internal(err))
			return
		}
		if taken {
			utils.RespondWithError(c, http.StatusConflict, "Customer with this email already exists")
			return
		}
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "image", "customers")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	status := input.Status
	if status == "" {
		status = models.StatusActive
	}
	customer := models.Customer{
		UserID:          userID,
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		Website:         input.Website,
		Notes:           input.Notes,
		Image:           image,
		Currency:        input.Currency,
		BillingAddress:  input.BillingAddress,
		ShippingAddress: input.ShippingAddress,
		Balance:         input.Balance,
		Status:          status,
	}
	if err := config.DB.Create(&customer).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, customerWriteError(err))
		return
	}
	uploads.Commit()

	c.JSON(http.StatusCreated, customerResponse(&customer))
}

// GetCustomers lists the live customers of the user
func GetCustomers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	query := config.DB.Model(&models.Customer{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if pattern, ok := utils.SearchPattern(c); ok {
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var customers []models.Customer
	if err := query.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	data := make([]gin.H, 0, len(customers))
	for i := range customers {
		data = append(data, customerResponse(&customers[i]))
	}
	c.JSON(http.StatusOK, utils.Paged(data, total, p))
}

// findCustomer loads a customer by id, soft-deleted ones included
func findCustomer(c *gin.Context, userID uuid.UUID) (*models.Customer, bool) {
	customerID, ok := paramID(c, "id", "customer")
	if !ok {
		return nil, false
	}
	var customer models.Customer
	if err := config.DB.Where("user_id = ? AND id = ?", userID, customerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return nil, false
	}
	return &customer, true
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customer, ok := findCustomer(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, customerResponse(customer))
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if !bindPayload(c, &input) {
		return
	}

	customer, ok := findCustomer(c, userID)
	if !ok {
		return
	}
	if customer.IsDeleted {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	// Update fields if provided
	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email != "" && !strings.EqualFold(*input.Email, customer.Email) {
			taken, err := emailTaken(userID, *input.Email, customer.ID)
			if err != nil {
				utils.RespondWithAppError(c, utils.Internal(err))
				return
			}
			if taken {
				utils.RespondWithError(c, http.StatusConflict, "Another customer with this email already exists")
				return
			}
		}
		customer.Email = *input.Email
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithAppError(c, utils.ValidationError(map[string]string{"phone": "must be a valid phone number"}))
			return
		}
		customer.Phone = *input.Phone
	}
	if input.Website != nil {
		customer.Website = *input.Website
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	if input.Currency != nil {
		customer.Currency = *input.Currency
	}
	if input.BillingAddress != nil {
		customer.BillingAddress = *input.BillingAddress
	}
	if input.ShippingAddress != nil {
		customer.ShippingAddress = *input.ShippingAddress
	}
	if input.Status != nil {
		customer.Status = *input.Status
	}

	uploads := &utils.Uploads{}
	image, err := uploads.Save(c, "image", "customers")
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if image != "" {
		uploads.Replace(customer.Image)
		customer.Image = image
	}

	if err := config.DB.Save(customer).Error; err != nil {
		uploads.Rollback()
		utils.RespondWithAppError(c, customerWriteError(err))
		return
	}
	uploads.Commit()

	c.JSON(http.StatusOK, customerResponse(customer))
}

// DeleteCustomer soft deletes a customer
func DeleteCustomer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customerID, ok := paramID(c, "id", "customer")
	if !ok {
		return
	}

	result := config.DB.Model(&models.Customer{}).
		Where("user_id = ? AND id = ? AND is_deleted = ?", userID, customerID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
