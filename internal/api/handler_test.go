package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-service/config"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/state"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeCatalogStore struct {
	products   []models.Product
	categories []models.Category
}

func (s *fakeCatalogStore) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *fakeCatalogStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.products, nil
}

func (s *fakeCatalogStore) CreateProduct(ctx context.Context, product *models.Product) error {
	s.products = append(s.products, *product)
	return nil
}

func (s *fakeCatalogStore) DeleteProduct(ctx context.Context, id string) error { return nil }

func (s *fakeCatalogStore) CreateCategory(ctx context.Context, category *models.Category) error {
	s.categories = append(s.categories, *category)
	return nil
}

func (s *fakeCatalogStore) DeleteCategory(ctx context.Context, id string) error { return nil }

type fakeOrderStore struct {
	orders    []models.Order
	failWrite bool
}

func (s *fakeOrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if s.failWrite {
		return errors.New("connection refused")
	}
	s.orders = append(s.orders, *order)
	return nil
}

func (s *fakeOrderStore) GetOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders, nil
}

func (s *fakeOrderStore) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return &s.orders[i], nil
		}
	}
	return nil, errors.New("order not found")
}

func (s *fakeOrderStore) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			return nil
		}
	}
	return errors.New("order not found")
}

const testAdminEmail = "admin@bahacuir.com"
const testAdminPassword = "atelier2020"

func setupTestRouter(t *testing.T, orderStore *fakeOrderStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogStore := &fakeCatalogStore{
		products: []models.Product{
			{ID: "1", Name: "Le Cartable Bleu Abysse", Category: "bags", Price: 98000},
			{ID: "2", Name: "Pochette Nomade Charbon", Category: "accessories", Price: 25000},
		},
		categories: []models.Category{
			{ID: "cat-1", Name: "Sacs", Slug: "bags"},
			{ID: "cat-2", Name: "Accessoires", Slug: "accessories"},
		},
	}

	catalogService := service.NewCatalogService(catalogStore, nil)
	catalogService.Init(context.Background())

	orderService := service.NewOrderService(orderStore, nil)
	advisorService := service.NewAdvisorService(config.AdvisorConfig{})

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	authenticator := auth.NewCredentialAuthenticator(config.AdminConfig{
		Email:        testAdminEmail,
		PasswordHash: string(hash),
	})

	sessionManager := state.NewManager(service.WelcomeMessage, time.Hour)

	router := gin.New()
	router.Use(sessions.Sessions("storefront_session", cookie.NewStore([]byte("test-secret"))))

	handler := NewHandler(catalogService, orderService, advisorService, authenticator, sessionManager)
	handler.SetupRoutes(router)
	return router
}

// client keeps the session cookie across requests, like a browser would.
type client struct {
	router  *gin.Engine
	cookies []*http.Cookie
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGetCatalog(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	w := c.do(http.MethodGet, "/api/v1/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Len(t, body["products"], 2)
	assert.Len(t, body["categories"], 2)
}

func TestGetCatalogFilteredByCategory(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	w := c.do(http.MethodGet, "/api/v1/catalog?category=bags", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["products"], 1)

	w = c.do(http.MethodGet, "/api/v1/catalog?category=belts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["products"], 0)
}

func TestGetProductNotFound(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	w := c.do(http.MethodGet, "/api/v1/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartFlowAcrossRequests(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	w := c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = c.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["items"], 2)
	assert.Equal(t, float64(196000), body["total"])

	w = c.do(http.MethodDelete, "/api/v1/cart/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	w := c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuyNowReplacesCartAndNavigates(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})
	w := c.do(http.MethodPost, "/api/v1/cart/buy-now", gin.H{"product_id": "2"})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Len(t, body["items"], 1)
	assert.Equal(t, float64(25000), body["total"])

	w = c.do(http.MethodGet, "/api/v1/session", nil)
	assert.Equal(t, "checkout", decode(t, w)["view"])
}

func TestNavigate(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	w := c.do(http.MethodPost, "/api/v1/session/navigate", gin.H{"view": "shop"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shop", decode(t, w)["view"])

	w = c.do(http.MethodPost, "/api/v1/session/navigate", gin.H{"view": "settings"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/v1/session/navigate", gin.H{"view": "product-detail", "product_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodPost, "/api/v1/session/navigate", gin.H{"view": "product-detail", "product_id": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "product-detail", body["view"])
	require.NotNil(t, body["selectedProduct"])
}

func TestCheckoutSubmitsOrderAndClearsCart(t *testing.T) {
	orderStore := &fakeOrderStore{}
	c := &client{router: setupTestRouter(t, orderStore)}

	c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})

	w := c.do(http.MethodPost, "/api/v1/checkout", gin.H{
		"name":    "Amine B.",
		"email":   "amine@example.com",
		"phone":   "+213555000111",
		"address": "12 rue des Tanneurs, Alger",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, "pending", body["status"])
	assert.Regexp(t, `^BC-[0-9A-Z]{9}$`, body["id"])
	assert.Len(t, orderStore.orders, 1)

	w = c.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Len(t, decode(t, w)["items"], 0)

	w = c.do(http.MethodGet, "/api/v1/session", nil)
	assert.Equal(t, "success", decode(t, w)["checkoutStep"])
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	w := c.do(http.MethodPost, "/api/v1/checkout", gin.H{
		"name":    "Amine B.",
		"email":   "amine@example.com",
		"phone":   "+213555000111",
		"address": "12 rue des Tanneurs, Alger",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	orderStore := &fakeOrderStore{failWrite: true}
	c := &client{router: setupTestRouter(t, orderStore)}

	c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})

	w := c.do(http.MethodPost, "/api/v1/checkout", gin.H{
		"name":    "Amine B.",
		"email":   "amine@example.com",
		"phone":   "+213555000111",
		"address": "12 rue des Tanneurs, Alger",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, orderStore.orders)

	w = c.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Len(t, decode(t, w)["items"], 1)
}

func TestAdvisorTranscript(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	w := c.do(http.MethodGet, "/api/v1/advisor/transcript", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["messages"], 1)
	assert.Equal(t, false, body["busy"])

	w = c.do(http.MethodPost, "/api/v1/advisor/messages", gin.H{"text": "quel cuir choisir ?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MissingConfigReply, decode(t, w)["reply"])

	w = c.do(http.MethodGet, "/api/v1/advisor/transcript", nil)
	assert.Len(t, decode(t, w)["messages"], 3)
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	w := c.do(http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodPost, "/api/v1/admin/login", gin.H{
		"email":    testAdminEmail,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginAndDashboard(t *testing.T) {
	orderStore := &fakeOrderStore{orders: []models.Order{
		{ID: "BC-AAAAAAAAA", Status: models.OrderStatusPending, Total: 98000},
		{ID: "BC-BBBBBBBBB", Status: models.OrderStatusDelivered, Total: 65000},
	}}
	c := &client{router: setupTestRouter(t, orderStore)}

	w := c.do(http.MethodPost, "/api/v1/admin/login", gin.H{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/api/v1/admin/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 2)

	w = c.do(http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["pendingCount"])
	assert.Equal(t, float64(65000), body["deliveredRevenue"])

	w = c.do(http.MethodPatch, "/api/v1/admin/orders/BC-AAAAAAAAA/status", gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPatch, "/api/v1/admin/orders/BC-AAAAAAAAA/status", gin.H{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/v1/admin/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminCatalogMutations(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	c.do(http.MethodPost, "/api/v1/admin/login", gin.H{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})

	w := c.do(http.MethodPost, "/api/v1/admin/products", gin.H{
		"name":     "Ceinture Ouvrière",
		"category": "accessories",
		"price":    12000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	productID := decode(t, w)["id"].(string)

	w = c.do(http.MethodGet, "/api/v1/catalog", nil)
	assert.Len(t, decode(t, w)["products"], 3)

	w = c.do(http.MethodPost, "/api/v1/admin/categories", gin.H{"name": "Petite Maroquinerie"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "petite-maroquinerie", decode(t, w)["slug"])

	w = c.do(http.MethodDelete, "/api/v1/admin/products/"+productID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = c.do(http.MethodGet, "/api/v1/catalog", nil)
	assert.Len(t, decode(t, w)["products"], 2)
}

func TestHealthEndpoints(t *testing.T) {
	c := &client{router: setupTestRouter(t, &fakeOrderStore{})}

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/ready", nil).Code)
}
