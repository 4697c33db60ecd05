// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"fuko-store/controllers"
	"fuko-store/middleware"
)

// Controllers groups the handlers mounted by RegisterRoutes
type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Product   *controllers.ProductController
	Cart      *controllers.CartController
	Checkout  *controllers.CheckoutController
	Order     *controllers.OrderController
	Settings  *controllers.SettingsController
	Analytics *controllers.AnalyticsController
	Dashboard *controllers.DashboardController

	Health    http.HandlerFunc
	Metrics   http.Handler
	UploadDir string
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	// Operational routes
	router.HandleFunc("/health", c.Health).Methods("GET")
	if c.Metrics != nil {
		router.Handle("/metrics", c.Metrics).Methods("GET")
	}

	// Public routes
	router.HandleFunc("/settings", c.Settings.GetSettings).Methods("GET")
	router.HandleFunc("/products", c.Product.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", c.Product.GetProductByID).Methods("GET")
	router.HandleFunc("/auth/otp/send", c.Auth.SendOTP).Methods("POST")
	router.HandleFunc("/auth/otp/verify", c.Auth.VerifyOTP).Methods("POST")
	router.HandleFunc("/admin/login", c.Auth.AdminLogin).Methods("POST")

	// Customer routes
	customer := router.NewRoute().Subrouter()
	customer.Use(middleware.AuthMiddleware)
	customer.Use(middleware.CustomerMiddleware)
	customer.HandleFunc("/profile", c.User.GetProfile).Methods("GET")
	customer.HandleFunc("/profile", c.User.UpdateProfile).Methods("PUT")
	customer.HandleFunc("/profile/addresses", c.User.AddAddress).Methods("POST")
	customer.HandleFunc("/profile/addresses/{index:[0-9]+}", c.User.UpdateAddress).Methods("PUT")
	customer.HandleFunc("/profile/addresses/{index:[0-9]+}", c.User.DeleteAddress).Methods("DELETE")

	// Cart routes
	customer.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	customer.HandleFunc("/cart", c.Cart.AddToCart).Methods("POST")
	customer.HandleFunc("/cart", c.Cart.RemoveFromCart).Methods("DELETE")

	// Checkout routes
	customer.HandleFunc("/checkout", c.Checkout.GetCheckout).Methods("GET")
	customer.HandleFunc("/checkout/onboarding", c.Checkout.Onboard).Methods("POST")
	customer.HandleFunc("/checkout/upi", c.Checkout.GetUPIPayment).Methods("GET")
	customer.HandleFunc("/checkout/confirm", c.Checkout.Confirm).Methods("POST")

	// Order routes
	customer.HandleFunc("/orders", c.Order.GetOrders).Methods("GET")
	customer.HandleFunc("/orders/{id}", c.Order.GetOrder).Methods("GET")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/dashboard", c.Dashboard.GetDashboard).Methods("GET")

	admin.HandleFunc("/orders", c.Order.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", c.Order.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}/payment", c.Order.UpdateOrderPaymentStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}", c.Order.DeleteOrder).Methods("DELETE")

	admin.HandleFunc("/products", c.Product.ListAllProducts).Methods("GET")
	admin.HandleFunc("/products", c.Product.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", c.Product.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", c.Product.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/products/{id}/hidden", c.Product.ToggleHidden).Methods("POST")
	admin.HandleFunc("/products/{id}/images", c.Product.AddImage).Methods("POST")
	admin.HandleFunc("/products/{id}/images/{index:[0-9]+}/move", c.Product.MoveImage).Methods("POST")
	admin.HandleFunc("/products/{id}/images/{index:[0-9]+}", c.Product.RemoveImage).Methods("DELETE")

	admin.HandleFunc("/settings", c.Settings.UpdateSettings).Methods("PUT")

	admin.HandleFunc("/analytics", c.Analytics.GetReport).Methods("GET")
	admin.HandleFunc("/analytics/reach", c.Analytics.GetNetworkReach).Methods("GET")
	admin.HandleFunc("/analytics/export", c.Analytics.ExportReport).Methods("GET")

	// Payment screenshots
	if c.UploadDir != "" {
		admin.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/admin/uploads/", http.FileServer(http.Dir(c.UploadDir))),
		).Methods("GET")
	}
}
