package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/orderdesk/sales-admin-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/orderdesk/sales-admin-api/internal/domains/catalog/application"
	catalogdomain "github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"
	clientsmemory "github.com/orderdesk/sales-admin-api/internal/domains/clients/adapters/memory"
	clientsapp "github.com/orderdesk/sales-admin-api/internal/domains/clients/application"
	clientsdomain "github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"
	deliveriesmemory "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/adapters/memory"
	deliveriesapp "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/application"
	deliveriesports "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/ports"
	metricsmemory "github.com/orderdesk/sales-admin-api/internal/domains/metrics/adapters/memory"
	metricsapp "github.com/orderdesk/sales-admin-api/internal/domains/metrics/application"
	ordersmemory "github.com/orderdesk/sales-admin-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/orderdesk/sales-admin-api/internal/domains/orders/application"
	ordersports "github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
	usersmemory "github.com/orderdesk/sales-admin-api/internal/domains/users/adapters/memory"
	usersapp "github.com/orderdesk/sales-admin-api/internal/domains/users/application"
	usersports "github.com/orderdesk/sales-admin-api/internal/domains/users/ports"
)

// The test mirrors mimic the process wiring: catalog and client changes
// feed the order and delivery ledgers.
type testProductMirror struct {
	orders     *ordersmemory.Repository
	deliveries *deliveriesmemory.Repository
}

func (m testProductMirror) UpsertProduct(p *catalogdomain.Product) {
	m.orders.SeedProduct(ordersports.ProductRef{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
	})
	m.deliveries.SeedProduct(deliveriesports.ProductRef{ID: p.ID, Title: p.Title}, p.StockQuantity)
}

func (m testProductMirror) RemoveProduct(id int64) {
	m.orders.RemoveProduct(id)
	m.deliveries.RemoveProduct(id)
}

type testBuyerMirror struct {
	orders *ordersmemory.Repository
}

func (m testBuyerMirror) UpsertBuyer(c *clientsdomain.Client) {
	m.orders.SeedBuyer(ordersports.BuyerRef{ID: c.ID, Name: c.Name, Email: c.Email})
}

func (m testBuyerMirror) RemoveBuyer(id int64) {
	m.orders.RemoveBuyer(id)
}

func newTestRouter(t *testing.T) (*gin.Engine, usersports.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orderRepo := ordersmemory.NewRepository()
	deliveryRepo := deliveriesmemory.NewRepository()
	catalogService := catalogapp.NewService(
		catalogmemory.NewProductRepository().
			WithOrderPurger(orderRepo).
			WithProductMirror(testProductMirror{orders: orderRepo, deliveries: deliveryRepo}),
		catalogmemory.NewCategoryRepository(),
	)
	clientService := clientsapp.NewService(
		clientsmemory.NewRepository().
			WithOrderCounter(orderRepo).
			WithBuyerMirror(testBuyerMirror{orders: orderRepo}),
	)
	orderService := ordersapp.NewService(orderRepo)
	deliveryService := deliveriesapp.NewService(deliveryRepo)
	metricsService := metricsapp.NewService(metricsmemory.NewRepository())
	userService := usersapp.NewService(
		usersmemory.NewRepository(),
		usersapp.NewPasswordHasher(),
		usersapp.NewTokenManager(usersapp.DefaultTokenConfig("routes-test-secret")),
	)

	handlers := ApiHandleFunctions{
		ProductAPI:  NewProductAPI(catalogService),
		CategoryAPI: NewCategoryAPI(catalogService),
		ClientAPI:   NewClientAPI(clientService),
		OrderAPI:    NewOrderAPI(orderService),
		DeliveryAPI: NewDeliveryAPI(deliveryService),
		MetricsAPI:  NewMetricsAPI(metricsService),
		AuthAPI:     NewAuthAPI(userService),
		UserAPI:     NewUserAPI(userService),
	}
	return NewRouterWithGinEngine(gin.New(), handlers, userService), userService
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates an account through the public endpoints and
// returns its access token.
func registerAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"name":     "Test Account",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return login(t, router, email, "correct horse battery")
}

func login(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	tokens, ok := body["tokens"].(map[string]any)
	require.True(t, ok)
	access, ok := tokens["accessToken"].(string)
	require.True(t, ok)
	require.NotEmpty(t, access)
	return access
}

// seedAdmin provisions an admin the way the process bootstrap does: through
// the application service, never through the public register endpoint.
func seedAdmin(t *testing.T, users usersports.Service, email string) string {
	t.Helper()
	_, err := users.Register(context.Background(), usersports.RegisterInput{
		Email:    email,
		Name:     "Administrator",
		Password: "correct horse battery",
		Role:     "ADMIN",
	})
	require.NoError(t, err)
	return email
}

func TestRouter_RejectsMissingToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products", "", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, float64(http.StatusUnauthorized), body["status"])
	require.Equal(t, "/api/v1/products", body["instance"])
}

func TestRouter_AuthMe(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "me@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "me@example.com", body["email"])
	require.Equal(t, "USER", body["role"])
}

func TestRouter_RegisterIgnoresRequestedRole(t *testing.T) {
	router, _ := newTestRouter(t)

	// A role smuggled into the public register payload must not be honored.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "sneaky@example.com",
		"name":     "Sneaky",
		"password": "correct horse battery",
		"role":     "ADMIN",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "USER", decodeBody(t, rec)["role"])

	token := login(t, router, "sneaky@example.com", "correct horse battery")
	rec = doJSON(t, router, http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_ProductLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "catalog@example.com")

	payload := gin.H{
		"title":         "Anvil",
		"sku":           "ANV-001",
		"stockQuantity": 5,
		"price":         "19.99",
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	require.Equal(t, "19.99", created["price"])

	// Duplicate SKU conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", token, payload)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products?q=anv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)
	require.Equal(t, float64(1), list["total"])
	require.Equal(t, float64(1), list["page"])
	require.Equal(t, float64(10), list["pageSize"])
	require.Len(t, list["data"], 1)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/9999", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_OrderAndDeliveryFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "sales@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/clients", token, gin.H{
		"email": "buyer@acme.test",
		"name":  "Jo Buyer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	buyerID := decodeBody(t, rec)["id"].(float64)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", token, gin.H{
		"title":         "Anvil",
		"sku":           "ANV-001",
		"stockQuantity": 5,
		"price":         "10.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	productID := decodeBody(t, rec)["id"].(float64)

	// Entities created over the API are usable by the order workflow.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders", token, gin.H{
		"buyerId": buyerID,
		"items":   []gin.H{{"productId": productID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decodeBody(t, rec)
	require.Equal(t, "20.00", order["totalAmount"])

	rec = doJSON(t, router, http.MethodPost, "/api/v1/deliveries", token, gin.H{
		"productId": productID,
		"quantity":  3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_UserRoutesRequireAdmin(t *testing.T) {
	router, users := newTestRouter(t)
	userToken := registerAndLogin(t, router, "plain@example.com")
	seedAdmin(t, users, "boss@example.com")
	adminToken := login(t, router, "boss@example.com", "correct horse battery")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/users", userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, float64(2), body["total"])
}

func TestRouter_AdminCreatesUserWithRole(t *testing.T) {
	router, users := newTestRouter(t)
	seedAdmin(t, users, "boss@example.com")
	adminToken := login(t, router, "boss@example.com", "correct horse battery")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users", adminToken, gin.H{
		"email":    "second@example.com",
		"name":     "Second Admin",
		"password": "correct horse battery",
		"role":     "ADMIN",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "ADMIN", decodeBody(t, rec)["role"])

	secondToken := login(t, router, "second@example.com", "correct horse battery")
	rec = doJSON(t, router, http.MethodGet, "/api/v1/users", secondToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
