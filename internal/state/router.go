package state

import "storefront-service/internal/models"

// View names one storefront screen.
type View string

const (
	ViewHome           View = "home"
	ViewShop           View = "shop"
	ViewProductDetail  View = "product-detail"
	ViewCheckout       View = "checkout"
	ViewAdvisor        View = "advisor"
	ViewAdminLogin     View = "admin-login"
	ViewAdminDashboard View = "admin-dashboard"
)

// ValidView reports whether v names a known screen.
func ValidView(v View) bool {
	switch v {
	case ViewHome, ViewShop, ViewProductDetail, ViewCheckout,
		ViewAdvisor, ViewAdminLogin, ViewAdminDashboard:
		return true
	}
	return false
}

// Route is a tagged navigation target. Only the product-detail route
// carries a payload, so a screen can never render with a stale or missing
// selection.
type Route struct {
	view    View
	product *models.Product
}

func HomeRoute() Route           { return Route{view: ViewHome} }
func ShopRoute() Route           { return Route{view: ViewShop} }
func CheckoutRoute() Route       { return Route{view: ViewCheckout} }
func AdvisorRoute() Route        { return Route{view: ViewAdvisor} }
func AdminLoginRoute() Route     { return Route{view: ViewAdminLogin} }
func AdminDashboardRoute() Route { return Route{view: ViewAdminDashboard} }

// ProductDetailRoute binds the selected product to the navigation event.
func ProductDetailRoute(p models.Product) Route {
	return Route{view: ViewProductDetail, product: &p}
}

// Router tracks which screen is mounted. There is no back stack and no
// time-based transition; every change comes from an explicit Navigate.
type Router struct {
	view     View
	selected *models.Product
}

// NewRouter starts at home.
func NewRouter() Router {
	return Router{view: ViewHome}
}

// Navigate applies a route. Entering any view other than product-detail
// clears the selection.
func (r Router) Navigate(route Route) Router {
	return Router{view: route.view, selected: route.product}
}

// View returns the mounted screen.
func (r Router) View() View {
	return r.view
}

// SelectedProduct returns the product bound to the current route, if any.
func (r Router) SelectedProduct() (models.Product, bool) {
	if r.selected == nil {
		return models.Product{}, false
	}
	return *r.selected, true
}
