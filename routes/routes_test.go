package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.JWTSecret = "test-secret"
	cfg.UploadDir = t.TempDir()
	config.App = cfg

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	config.DB = db

	return &testServer{t: t, router: SetupRouter()}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w.Code, out
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/auth/register", "", gin.H{
		"firstName": "Test",
		"email":     email,
		"password":  "secret123",
	})
	require.Equal(s.t, http.StatusCreated, code, body)
	return body["token"].(string)
}

func (s *testServer) create(path, token string, body interface{}) string {
	s.t.Helper()
	code, out := s.do(http.MethodPost, path, token, body)
	require.Equal(s.t, http.StatusCreated, code, out)
	return out["id"].(string)
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	code, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	s := setupServer(t)
	token := s.register("Owner@Example.com")

	code, _ := s.do(http.MethodPost, "/auth/register", "", gin.H{"firstName": "Again", "email": "owner@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, code)

	code, body := s.do(http.MethodPost, "/auth/login", "", gin.H{"email": "owner@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["token"])

	code, _ = s.do(http.MethodPost, "/auth/login", "", gin.H{"email": "owner@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = s.do(http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "owner@example.com", body["user"].(map[string]interface{})["email"])

	code, _ = s.do(http.MethodGet, "/admin/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestInvoiceLifecycle(t *testing.T) {
	s := setupServer(t)
	token := s.register("owner@example.com")

	customerID := s.create("/admin/customers", token, gin.H{"name": "Acme Ltd", "phone": "+15550001111"})
	productID := s.create("/admin/products", token, gin.H{"type": "product", "name": "Widget", "sku": "W-1", "sellingPrice": 50})

	code, body := s.do(http.MethodPost, "/admin/inventory/stock-in", token, gin.H{"productId": productID, "quantity": 10})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "adjustment", body["type"])

	code, invoice := s.do(http.MethodPost, "/admin/invoices", token, gin.H{
		"customerId": customerID,
		"status":     "SENT",
		"items":      []gin.H{{"productId": productID, "quantity": 3, "rate": 50}},
	})
	require.Equal(t, http.StatusCreated, code, invoice)
	assert.Equal(t, "INV-000001", invoice["invoiceNumber"])
	assert.Equal(t, "150", invoice["TotalAmount"])
	assert.Equal(t, "Widget", invoice["items"].([]interface{})[0].(map[string]interface{})["name"])
	invoiceID := invoice["id"].(string)

	code, body = s.do(http.MethodGet, "/admin/inventory/"+productID, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "7", body["quantity"])

	code, body = s.do(http.MethodPost, "/admin/invoices", token, gin.H{
		"customerId": customerID,
		"items":      []gin.H{{"productId": productID, "quantity": 8, "rate": 50}},
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "InsufficientStock", body["code"])

	code, body = s.do(http.MethodPost, "/admin/invoices/"+invoiceID+"/payments", token, gin.H{"amount": 100})
	require.Equal(t, http.StatusCreated, code, body)
	code, _ = s.do(http.MethodPost, "/admin/invoices/"+invoiceID+"/payments", token, gin.H{"amount": 100})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = s.do(http.MethodPost, "/admin/invoices/"+invoiceID+"/payments", token, gin.H{"amount": 50})
	require.Equal(t, http.StatusCreated, code)

	code, body = s.do(http.MethodGet, "/admin/invoices/"+invoiceID, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "PAID", body["status"])
	assert.Equal(t, "0", body["balance"])

	code, body = s.do(http.MethodGet, "/admin/invoices/"+invoiceID+"/payments", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 2)

	code, body = s.do(http.MethodPatch, "/admin/invoices/"+invoiceID+"/status", token, gin.H{"status": "DRAFT"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "InvalidTransition", body["code"])

	code, body = s.do(http.MethodPost, "/admin/invoices/"+invoiceID+"/clone", token, nil)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "INV-000002", body["invoiceNumber"])
	assert.Equal(t, "DRAFT", body["status"])

	code, body = s.do(http.MethodGet, "/admin/invoices?status=PAID", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["totalRecords"])

	code, body = s.do(http.MethodGet, "/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.EqualValues(t, 1, body["totalCustomers"])
	assert.EqualValues(t, 2, body["totalInvoices"])
	assert.Len(t, body["recentInvoices"], 2)

	code, body = s.do(http.MethodGet, "/admin/reports/summary", token, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, "month")
	assert.Contains(t, body, "year")

	t.Run("other owners cannot see the invoice", func(t *testing.T) {
		other := s.register("other@example.com")
		code, _ := s.do(http.MethodGet, "/admin/invoices/"+invoiceID, other, nil)
		assert.Equal(t, http.StatusNotFound, code)

		code, body := s.do(http.MethodGet, "/admin/invoices", other, nil)
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 0, body["totalRecords"])
	})

	t.Run("bad ids are rejected", func(t *testing.T) {
		code, _ := s.do(http.MethodGet, "/admin/invoices/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestInvoiceValidation(t *testing.T) {
	s := setupServer(t)
	token := s.register("owner@example.com")
	customerID := s.create("/admin/customers", token, gin.H{"name": "Acme Ltd"})

	code, body := s.do(http.MethodPost, "/admin/invoices", token, gin.H{"customerId": customerID, "items": []gin.H{}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["fields"], "items")

	code, _ = s.do(http.MethodPost, "/admin/invoices", token, gin.H{"items": []gin.H{{"name": "x", "quantity": 1, "rate": 1}}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestCustomerSoftDelete(t *testing.T) {
	s := setupServer(t)
	token := s.register("owner@example.com")
	customerID := s.create("/admin/customers", token, gin.H{"name": "Acme Ltd", "email": "billing@acme.test"})

	code, _ := s.do(http.MethodPost, "/admin/customers", token, gin.H{"name": "Dup", "email": "BILLING@acme.test"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodDelete, "/admin/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/admin/customers/"+customerID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body := s.do(http.MethodGet, "/admin/customers", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["totalRecords"])

	code, body = s.do(http.MethodGet, "/admin/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["isDeleted"])

	code, _ = s.do(http.MethodPost, "/admin/invoices", token, gin.H{
		"customerId": customerID,
		"items":      []gin.H{{"name": "x", "quantity": 1, "rate": 1}},
	})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCatalogDeleteInUse(t *testing.T) {
	s := setupServer(t)
	token := s.register("owner@example.com")

	code, category := s.do(http.MethodPost, "/admin/categories", token, gin.H{"name": "Office Supplies"})
	require.Equal(t, http.StatusCreated, code, category)
	assert.Equal(t, "office-supplies", category["slug"])
	categoryID := category["id"].(string)

	productID := s.create("/admin/products", token, gin.H{"type": "product", "name": "Stapler", "sku": "ST-1", "categoryId": categoryID})

	code, _ = s.do(http.MethodPost, "/admin/products", token, gin.H{"type": "product", "name": "Other", "sku": "ST-1"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodDelete, "/admin/categories/"+categoryID, token, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodDelete, "/admin/products/"+productID, token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/admin/categories/"+categoryID, token, nil)
	assert.Equal(t, http.StatusOK, code)
}
