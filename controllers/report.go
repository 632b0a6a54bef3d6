// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

// ReportController handles all reporting functions
type ReportController struct{}

// PeriodSummary compares one period's sales and purchases with the period before it
type PeriodSummary struct {
	Sales          decimal.Decimal `json:"sales"`
	SalesGrowth    decimal.Decimal `json:"salesGrowth"`
	Purchases      decimal.Decimal `json:"purchases"`
	PurchaseGrowth decimal.Decimal `json:"purchaseGrowth"`
}

type ReportSummary struct {
	Month        PeriodSummary     `json:"month"`
	Quarter      PeriodSummary     `json:"quarter"`
	Year         PeriodSummary     `json:"year"`
	TopProducts  []ProductSummary  `json:"topProducts"`
	TopCustomers []CustomerSummary `json:"topCustomers"`
}

type ProductSummary struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type CustomerSummary struct {
	Name     string          `json:"name"`
	Invoices int             `json:"invoices"`
	Spent    decimal.Decimal `json:"spent"`
}

type period struct {
	start, end time.Time // end is exclusive
}

// GetReportSummary returns month, quarter and year totals with growth against the previous period
func (rc *ReportController) GetReportSummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	now := utils.Today()
	if raw := c.Query("date"); raw != "" {
		t, err := utils.ParseDateKey(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		now = t
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	month := period{firstOfMonth, firstOfMonth.AddDate(0, 1, 0)}
	quarter := period{rc.getQuarterStart(now), rc.getQuarterStart(now).AddDate(0, 3, 0)}
	firstOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	year := period{firstOfYear, firstOfYear.AddDate(1, 0, 0)}

	var summary ReportSummary
	var err error
	if summary.Month, err = rc.summarize(userID, month, period{month.start.AddDate(0, -1, 0), month.start}); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly totals")
		return
	}
	if summary.Quarter, err = rc.summarize(userID, quarter, period{quarter.start.AddDate(0, -3, 0), quarter.start}); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly totals")
		return
	}
	if summary.Year, err = rc.summarize(userID, year, period{year.start.AddDate(-1, 0, 0), year.start}); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly totals")
		return
	}

	if summary.TopProducts, err = rc.getTopProducts(userID, month, 5); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top products")
		return
	}
	if summary.TopCustomers, err = rc.getTopCustomers(userID, month, 5); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top customers")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func (rc *ReportController) summarize(userID uuid.UUID, current, previous period) (PeriodSummary, error) {
	var s PeriodSummary
	sales, err := rc.getSales(userID, current)
	if err != nil {
		return s, err
	}
	lastSales, err := rc.getSales(userID, previous)
	if err != nil {
		return s, err
	}
	purchases, err := rc.getPurchases(userID, current)
	if err != nil {
		return s, err
	}
	lastPurchases, err := rc.getPurchases(userID, previous)
	if err != nil {
		return s, err
	}
	s.Sales = sales
	s.SalesGrowth = rc.calculateGrowthPercentage(sales, lastSales)
	s.Purchases = purchases
	s.PurchaseGrowth = rc.calculateGrowthPercentage(purchases, lastPurchases)
	return s, nil
}

func (rc *ReportController) getSales(userID uuid.UUID, p period) (decimal.Decimal, error) {
	return sumColumn(billableInvoices(userID).
		Where("invoice_date >= ? AND invoice_date < ?", p.start, p.end), "total_amount")
}

func (rc *ReportController) getPurchases(userID uuid.UUID, p period) (decimal.Decimal, error) {
	return sumColumn(config.DB.Model(&models.Purchase{}).
		Where("user_id = ? AND is_deleted = ? AND purchase_date >= ? AND purchase_date < ?", userID, false, p.start, p.end),
		"total_amount")
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, time.UTC)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}

func (rc *ReportController) getTopProducts(userID uuid.UUID, p period, limit int) ([]ProductSummary, error) {
	var products []ProductSummary

	err := config.DB.Table("line_items").
		Select("line_items.name, SUM(line_items.quantity) as quantity, SUM(line_items.amount) as revenue").
		Joins("JOIN invoices ON invoices.id = line_items.document_id AND line_items.document_type = ?", models.DocInvoice).
		Where("invoices.user_id = ? AND invoices.is_deleted = ? AND invoices.status NOT IN ? AND invoices.invoice_date >= ? AND invoices.invoice_date < ?",
			userID, false, []string{models.InvoiceDraft, models.InvoiceCancelled, models.InvoiceRefunded}, p.start, p.end).
		Group("line_items.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&products).Error

	return products, err
}

func (rc *ReportController) getTopCustomers(userID uuid.UUID, p period, limit int) ([]CustomerSummary, error) {
	var customers []CustomerSummary

	err := config.DB.Table("invoices").
		Select("customers.name, COUNT(invoices.id) as invoices, SUM(invoices.total_amount) as spent").
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.user_id = ? AND invoices.is_deleted = ? AND invoices.status NOT IN ? AND invoices.invoice_date >= ? AND invoices.invoice_date < ?",
			userID, false, []string{models.InvoiceDraft, models.InvoiceCancelled, models.InvoiceRefunded}, p.start, p.end).
		Group("customers.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&customers).Error

	return customers, err
}
