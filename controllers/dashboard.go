package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

type DashboardOverview struct {
	TotalCustomers int64           `json:"totalCustomers"`
	TotalInvoices  int64           `json:"totalInvoices"`
	TotalInvoiced  decimal.Decimal `json:"totalInvoiced"`
	TotalReceived  decimal.Decimal `json:"totalReceived"`
	TotalPending   decimal.Decimal `json:"totalPending"`
	OverdueCount   int64           `json:"overdueCount"`
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
	RecentInvoices []RecentInvoice `json:"recentInvoices"`
}

type RecentInvoice struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Customer      string          `json:"customer"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	InvoiceDate   string          `json:"invoiceDate"` // e.g. "Today", "3 days ago"
}

// billableInvoices scopes to live invoices that count towards revenue.
func billableInvoices(userID uuid.UUID) *gorm.DB {
	return config.DB.Model(&models.Invoice{}).
		Where("user_id = ? AND is_deleted = ? AND status NOT IN ?", userID, false,
			[]string{models.InvoiceDraft, models.InvoiceCancelled, models.InvoiceRefunded})
}

func sumColumn(q *gorm.DB, column string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := q.Select("COALESCE(SUM(" + column + "), 0)").Scan(&total).Error
	return total.Decimal, err
}

func relativeDay(t, today time.Time) string {
	days := utils.DaysBetween(utils.BeginningOfDay(t), today)
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// GetDashboardOverview returns the headline numbers of the user's books
func GetDashboardOverview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var overview DashboardOverview
	if err := config.DB.Model(&models.Customer{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&overview.TotalCustomers).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	if err := config.DB.Model(&models.Invoice{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&overview.TotalInvoices).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	if err := config.DB.Model(&models.Invoice{}).
		Where("user_id = ? AND is_deleted = ? AND status = ?", userID, false, models.InvoiceOverdue).
		Count(&overview.OverdueCount).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}

	today := utils.Today()
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	sums := []struct {
		dst    *decimal.Decimal
		query  *gorm.DB
		column string
	}{
		{&overview.TotalInvoiced, billableInvoices(userID), "total_amount"},
		{&overview.TotalReceived, billableInvoices(userID), "paid_amount"},
		{&overview.TotalPending, billableInvoices(userID), "balance_amount"},
		{&overview.MonthlyRevenue, billableInvoices(userID).Where("invoice_date >= ?", firstOfMonth), "total_amount"},
	}
	for _, s := range sums {
		total, err := sumColumn(s.query, s.column)
		if err != nil {
			utils.RespondWithAppError(c, utils.Internal(err))
			return
		}
		*s.dst = total
	}

	var recent []models.Invoice
	if err := config.DB.Preload("Customer").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("invoice_date DESC, created_at DESC").Limit(5).
		Find(&recent).Error; err != nil {
		utils.RespondWithAppError(c, utils.Internal(err))
		return
	}
	overview.RecentInvoices = make([]RecentInvoice, 0, len(recent))
	for _, inv := range recent {
		row := RecentInvoice{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Amount:        inv.TotalAmount,
			Status:        inv.Status,
			InvoiceDate:   relativeDay(inv.InvoiceDate, today),
		}
		if inv.Customer != nil {
			row.Customer = inv.Customer.Name
		}
		overview.RecentInvoices = append(overview.RecentInvoices, row)
	}

	c.JSON(http.StatusOK, overview)
}
