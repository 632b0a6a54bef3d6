package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"invoicehub-backend/config"
	"invoicehub-backend/controllers"
	"invoicehub-backend/utils"
)

func SetupRouter() *gin.Engine {
	if config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.App.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.RequestLogger())

	r.Static("/uploads", config.App.UploadDir)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
		auth.PUT("/profile", controllers.UpdateProfile)
		auth.PUT("/change-password", controllers.ChangePassword)
	}

	admin := r.Group("/admin")
	admin.Use(utils.AuthMiddleware())
	{
		// Party routes
		customers := admin.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		suppliers := admin.Group("/suppliers")
		{
			suppliers.POST("", controllers.CreateSupplier)
			suppliers.GET("", controllers.GetSuppliers)
			suppliers.GET("/:id", controllers.GetSupplier)
			suppliers.PUT("/:id", controllers.UpdateSupplier)
			suppliers.DELETE("/:id", controllers.DeleteSupplier)
		}

		banks := admin.Group("/bank-details")
		{
			banks.POST("", controllers.CreateBankDetail)
			banks.GET("", controllers.GetBankDetails)
			banks.GET("/:id", controllers.GetBankDetail)
			banks.PUT("/:id", controllers.UpdateBankDetail)
			banks.DELETE("/:id", controllers.DeleteBankDetail)
		}

		signatures := admin.Group("/signatures")
		{
			signatures.POST("", controllers.CreateSignature)
			signatures.GET("", controllers.GetSignatures)
			signatures.GET("/:id", controllers.GetSignature)
			signatures.PUT("/:id", controllers.UpdateSignature)
			signatures.PATCH("/:id/default", controllers.SetDefaultSignature)
			signatures.DELETE("/:id", controllers.DeleteSignature)
		}

		currencies := admin.Group("/currencies")
		{
			currencies.POST("", controllers.CreateCurrency)
			currencies.GET("", controllers.GetCurrencies)
			currencies.GET("/:id", controllers.GetCurrency)
			currencies.PUT("/:id", controllers.UpdateCurrency)
			currencies.DELETE("/:id", controllers.DeleteCurrency)
		}

		// Catalog routes
		categories := admin.Group("/categories")
		{
			categories.POST("", controllers.CreateCategory)
			categories.GET("", controllers.GetCategories)
			categories.GET("/:id", controllers.GetCategory)
			categories.PUT("/:id", controllers.UpdateCategory)
			categories.DELETE("/:id", controllers.DeleteCategory)
		}

		brands := admin.Group("/brands")
		{
			brands.POST("", controllers.CreateBrand)
			brands.GET("", controllers.GetBrands)
			brands.GET("/:id", controllers.GetBrand)
			brands.PUT("/:id", controllers.UpdateBrand)
			brands.DELETE("/:id", controllers.DeleteBrand)
		}

		units := admin.Group("/units")
		{
			units.POST("", controllers.CreateUnit)
			units.GET("", controllers.GetUnits)
			units.GET("/:id", controllers.GetUnit)
			units.PUT("/:id", controllers.UpdateUnit)
			units.DELETE("/:id", controllers.DeleteUnit)
		}

		taxes := admin.Group("/tax-rates")
		{
			taxes.POST("", controllers.CreateTaxRate)
			taxes.GET("", controllers.GetTaxRates)
			taxes.GET("/:id", controllers.GetTaxRate)
			taxes.PUT("/:id", controllers.UpdateTaxRate)
			taxes.DELETE("/:id", controllers.DeleteTaxRate)
		}

		taxGroups := admin.Group("/tax-groups")
		{
			taxGroups.POST("", controllers.CreateTaxGroup)
			taxGroups.GET("", controllers.GetTaxGroups)
			taxGroups.GET("/:id", controllers.GetTaxGroup)
			taxGroups.PUT("/:id", controllers.UpdateTaxGroup)
			taxGroups.DELETE("/:id", controllers.DeleteTaxGroup)
		}

		products := admin.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		// Sales routes
		quotations := admin.Group("/quotations")
		{
			quotations.POST("", controllers.CreateQuotation)
			quotations.GET("", controllers.GetQuotations)
			quotations.GET("/:id", controllers.GetQuotation)
			quotations.PUT("/:id", controllers.UpdateQuotation)
			quotations.DELETE("/:id", controllers.DeleteQuotation)
			quotations.POST("/:id/convert", controllers.ConvertQuotation)
		}

		invoices := admin.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.PUT("/:id", controllers.UpdateInvoice)
			invoices.DELETE("/:id", controllers.DeleteInvoice)
			invoices.PATCH("/:id/status", controllers.UpdateInvoiceStatus)
			invoices.POST("/:id/clone", controllers.CloneInvoice)
			invoices.GET("/:id/payments", controllers.GetInvoicePayments)
			invoices.POST("/:id/payments", controllers.AddInvoicePayment)
		}

		// Purchasing routes
		orders := admin.Group("/purchase-orders")
		{
			orders.POST("", controllers.CreatePurchaseOrder)
			orders.GET("", controllers.GetPurchaseOrders)
			orders.GET("/:id", controllers.GetPurchaseOrder)
			orders.PUT("/:id", controllers.UpdatePurchaseOrder)
			orders.DELETE("/:id", controllers.DeletePurchaseOrder)
			orders.POST("/:id/convert", controllers.ConvertPurchaseOrder)
		}

		purchases := admin.Group("/purchases")
		{
			purchases.POST("", controllers.CreatePurchase)
			purchases.GET("", controllers.GetPurchases)
			purchases.GET("/:id", controllers.GetPurchase)
			purchases.PUT("/:id", controllers.UpdatePurchase)
			purchases.DELETE("/:id", controllers.DeletePurchase)
		}

		payments := admin.Group("/supplier-payments")
		{
			payments.POST("", controllers.CreateSupplierPayment)
			payments.GET("", controllers.GetSupplierPayments)
			payments.GET("/:id", controllers.GetSupplierPayment)
			payments.DELETE("/:id", controllers.DeleteSupplierPayment)
		}

		debitNotes := admin.Group("/debit-notes")
		{
			debitNotes.POST("", controllers.CreateDebitNote)
			debitNotes.GET("", controllers.GetDebitNotes)
			debitNotes.GET("/:id", controllers.GetDebitNote)
			debitNotes.PUT("/:id", controllers.UpdateDebitNote)
			debitNotes.DELETE("/:id", controllers.DeleteDebitNote)
			debitNotes.PATCH("/:id/status", controllers.UpdateDebitNoteStatus)
		}

		// Inventory routes
		inventory := admin.Group("/inventory")
		{
			inventory.GET("", controllers.GetInventories)
			inventory.POST("/stock-in", controllers.StockIn)
			inventory.POST("/stock-out", controllers.StockOut)
			inventory.GET("/:productId", controllers.GetInventory)
		}

		// Settings routes
		settings := admin.Group("/settings")
		{
			settings.GET("/company", controllers.GetCompanySettings)
			settings.PUT("/company", controllers.UpdateCompanySettings)
			settings.GET("/email", controllers.GetEmailSettings)
			settings.PUT("/email", controllers.UpdateEmailSettings)
			settings.GET("/localization", controllers.GetLocalization)
			settings.PUT("/localization", controllers.UpdateLocalization)
			settings.GET("/invoice-template", controllers.GetInvoiceTemplate)
			settings.PUT("/invoice-template", controllers.UpdateInvoiceTemplate)
		}

		notifications := admin.Group("/notifications")
		{
			notifications.GET("", controllers.GetNotificationLogs)
			notifications.GET("/:id", controllers.GetNotificationLog)
			notifications.POST("/overdue/run", controllers.RunOverdueReminders)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		admin.GET("/reports/summary", reportController.GetReportSummary)

		// Dashboard routes
		admin.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
