package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/service"
	"storefront-service/internal/state"
	"storefront-service/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionIDKey = "sid"
const stateKey = "storefront_state"

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.CatalogService
	orders   *service.OrderService
	advisor  *service.AdvisorService
	authn    auth.Authenticator
	sessions *state.Manager
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	orders *service.OrderService,
	advisor *service.AdvisorService,
	authn auth.Authenticator,
	sessions *state.Manager,
) *Handler {
	return &Handler{
		catalog:  catalog,
		orders:   orders,
		advisor:  advisor,
		authn:    authn,
		sessions: sessions,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(h.withSession())
	{
		v1.GET("/catalog", h.getCatalog)
		v1.GET("/products/:id", h.getProduct)

		v1.GET("/session", h.getSessionState)
		v1.POST("/session/navigate", h.navigate)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addToCart)
		v1.POST("/cart/buy-now", h.buyNow)
		v1.DELETE("/cart/items/:productId", h.removeFromCart)

		v1.POST("/checkout", h.checkout)

		v1.GET("/advisor/transcript", h.getTranscript)
		v1.POST("/advisor/messages", h.postAdvisorMessage)

		v1.POST("/admin/login", h.adminLogin)
		v1.POST("/admin/logout", h.adminLogout)

		admin := v1.Group("/admin")
		admin.Use(h.requireAdmin())
		{
			admin.POST("/products", h.adminAddProduct)
			admin.DELETE("/products/:id", h.adminDeleteProduct)
			admin.POST("/categories", h.adminAddCategory)
			admin.DELETE("/categories/:id", h.adminDeleteCategory)
			admin.GET("/orders", h.adminListOrders)
			admin.PATCH("/orders/:id/status", h.adminUpdateOrderStatus)
			admin.GET("/stats", h.adminStats)
		}
	}
}

// withSession resolves the storefront session for this request, minting a
// new one when the cookie carries no known id.
func (h *Handler) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		sid, _ := sess.Get(sessionIDKey).(string)

		st := h.sessions.GetOrCreate(sid)
		if st.ID != sid {
			sess.Set(sessionIDKey, st.ID)
			_ = sess.Save()
		}

		c.Set(stateKey, st)
		c.Next()
	}
}

func (h *Handler) sessionState(c *gin.Context) *state.Session {
	return c.MustGet(stateKey).(*state.Session)
}

// requireAdmin gates the admin routes on the session's admin flag.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.sessionState(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// getCatalog returns products and categories, optionally filtered by a
// category slug. An unknown slug yields an empty product list, not an
// error.
func (h *Handler) getCatalog(c *gin.Context) {
	slug := c.Query("category")
	c.JSON(http.StatusOK, gin.H{
		"products":   h.catalog.FilterProducts(slug),
		"categories": h.catalog.Categories(),
	})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, ok := h.catalog.ProductByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) getSessionState(c *gin.Context) {
	st := h.sessionState(c)
	view, selected := st.RouterView()
	cart, total := st.CartView()

	resp := gin.H{
		"view":         view,
		"cartCount":    len(cart),
		"cartTotal":    total,
		"checkoutStep": st.CheckoutStep(),
		"admin":        st.IsAdmin(),
	}
	if selected != nil {
		resp["selectedProduct"] = selected
	}
	c.JSON(http.StatusOK, resp)
}

type navigateRequest struct {
	View      string `json:"view" binding:"required"`
	ProductID string `json:"product_id"`
}

// navigate applies an explicit user navigation. Only the product-detail
// view accepts a product payload; everywhere else it is ignored.
func (h *Handler) navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	view := state.View(req.View)
	if !state.ValidView(view) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view", "details": req.View})
		return
	}

	var route state.Route
	switch view {
	case state.ViewProductDetail:
		product, ok := h.catalog.ProductByID(req.ProductID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		route = state.ProductDetailRoute(product)
	case state.ViewShop:
		route = state.ShopRoute()
	case state.ViewCheckout:
		route = state.CheckoutRoute()
	case state.ViewAdvisor:
		route = state.AdvisorRoute()
	case state.ViewAdminLogin:
		route = state.AdminLoginRoute()
	case state.ViewAdminDashboard:
		route = state.AdminDashboardRoute()
	default:
		route = state.HomeRoute()
	}

	st := h.sessionState(c)
	st.Navigate(route)

	view, selected := st.RouterView()
	resp := gin.H{"view": view}
	if selected != nil {
		resp["selectedProduct"] = selected
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getCart(c *gin.Context) {
	cart, total := h.sessionState(c).CartView()
	c.JSON(http.StatusOK, gin.H{"items": cart, "total": total})
}

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, ok := h.catalog.ProductByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	st := h.sessionState(c)
	st.AddToCart(product)

	cart, total := st.CartView()
	c.JSON(http.StatusCreated, gin.H{"items": cart, "total": total})
}

func (h *Handler) buyNow(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, ok := h.catalog.ProductByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	st := h.sessionState(c)
	st.BuyNow(product)
	st.Navigate(state.CheckoutRoute())

	cart, total := st.CartView()
	c.JSON(http.StatusCreated, gin.H{"items": cart, "total": total})
}

func (h *Handler) removeFromCart(c *gin.Context) {
	st := h.sessionState(c)
	st.RemoveFromCart(c.Param("productId"))

	cart, total := st.CartView()
	c.JSON(http.StatusOK, gin.H{"items": cart, "total": total})
}

// checkout submits the cart with the customer's address form. On failure
// the cart is left untouched so the customer may retry; a retry mints a
// fresh order id.
func (h *Handler) checkout(c *gin.Context) {
	var form service.AddressForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	st := h.sessionState(c)
	items, total, err := st.BeginCheckout()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.Submit(c.Request.Context(), items, total, form)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to submit order",
			"details": err.Error(),
		})
		return
	}

	st.CompleteCheckout()
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) getTranscript(c *gin.Context) {
	transcript, busy := h.sessionState(c).TranscriptView()
	c.JSON(http.StatusOK, gin.H{"messages": transcript, "busy": busy})
}

type advisorMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// postAdvisorMessage handles one advice turn. While a request is in flight
// further submissions are rejected instead of queued.
func (h *Handler) postAdvisorMessage(c *gin.Context) {
	var req advisorMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	st := h.sessionState(c)
	if err := st.BeginAdvice(req.Text); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	reply := h.advisor.Advise(c.Request.Context(), req.Text)
	st.FinishAdvice(reply)

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.authn.Authenticate(req.Email, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	st := h.sessionState(c)
	st.SetAdmin(true)
	st.Navigate(state.AdminDashboardRoute())
	c.JSON(http.StatusOK, gin.H{"message": "logged in"})
}

func (h *Handler) adminLogout(c *gin.Context) {
	st := h.sessionState(c)
	st.SetAdmin(false)
	st.Navigate(state.HomeRoute())
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) adminAddProduct(c *gin.Context) {
	var draft service.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.AddProduct(c.Request.Context(), draft)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) adminDeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product", "details": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type addCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) adminAddCategory(c *gin.Context) {
	var req addCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	category, err := h.catalog.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add category", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) adminDeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category", "details": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) adminListOrders(c *gin.Context) {
	orders, err := h.orders.Orders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) adminUpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *Handler) adminStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
