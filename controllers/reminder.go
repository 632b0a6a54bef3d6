// controllers/reminder.go
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

// GetNotificationLogs lists reminder attempts, filtered by ?status, ?invoiceId and ?customerId
func GetNotificationLogs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.GetPagination(c)

	query := config.DB.Model(&models.NotificationLog{}).Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	for param, column := range map[string]string{"invoiceId": "invoice_id", "customerId": "customer_id"} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+param)
			return
		}
		query = query.Where(column+" = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	var logs []models.NotificationLog
	if err := query.Order("sent_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}

	c.JSON(http.StatusOK, utils.Paged(logs, total, p))
}

// GetNotificationLog retrieves a specific reminder attempt by ID
func GetNotificationLog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "notification")
	if !ok {
		return
	}

	var entry models.NotificationLog
	if err := config.DB.Where("user_id = ? AND id = ?", userID, id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Notification not found")
		} else {
			utils.RespondWithAppError(c, utils.Internal(err))
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// RunOverdueReminders marks the user's past-due invoices overdue and sends reminders now
// instead of waiting for the daily job.
func RunOverdueReminders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	reminders := services.NewReminderService(config.DB, config.App, services.NewTwilioMessenger(config.App))
	result, err := reminders.ProcessOverdueForUser(c.Request.Context(), utils.Today(), userID)
	if err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusOK, result)
}
