package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"invoicehub-backend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		Email:     uuid.NewString() + "@example.com",
		Password:  "secret123",
		Role:      "admin",
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCustomer(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Customer {
	t.Helper()
	customer := &models.Customer{UserID: userID, Name: "Acme Ltd", Phone: "+15550001111", Status: models.StatusActive}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func createSupplier(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{UserID: userID, Name: "Parts Co", BalanceType: "credit"}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func createProduct(t *testing.T, db *gorm.DB, userID uuid.UUID, kind string) *models.Product {
	t.Helper()
	product := &models.Product{
		UserID:       userID,
		Type:         kind,
		Name:         "Widget " + uuid.NewString()[:6],
		SKU:          uuid.NewString()[:12],
		SellingPrice: decimal.NewFromInt(50),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func stockOf(t *testing.T, db *gorm.DB, userID, productID uuid.UUID) decimal.Decimal {
	t.Helper()
	var inv models.Inventory
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&inv).Error
	require.NoError(t, err)

	fromHistory, err := QuantityFromHistory(context.Background(), db, inv.ID)
	require.NoError(t, err)
	require.True(t, inv.Quantity.Equal(fromHistory), "stored %s, history %s", inv.Quantity, fromHistory)
	return inv.Quantity
}
