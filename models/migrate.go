package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Customer{},
		&Supplier{},
		&BankDetail{},
		&Signature{},
		&Currency{},
		&Category{},
		&Brand{},
		&Unit{},
		&TaxRate{},
		&TaxGroup{},
		&Product{},
		&LineItem{},
		&Invoice{},
		&InvoicePayment{},
		&Quotation{},
		&PurchaseOrder{},
		&Purchase{},
		&SupplierPayment{},
		&DebitNote{},
		&Inventory{},
		&InventoryHistory{},
		&DocumentSequence{},
		&CompanySettings{},
		&EmailSettings{},
		&Localization{},
		&InvoiceTemplate{},
		&NotificationLog{},
	)
}
