package controllers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"fuko-store/analytics"
	"fuko-store/models"
	"fuko-store/services"
	"fuko-store/utils"
)

const (
	dashboardTopProducts  = 3
	dashboardRecentOrders = 5
)

// DashboardController serves the admin overview
type DashboardController struct {
	Orders  services.OrderService
	Catalog services.CatalogService
}

func NewDashboardController(orders services.OrderService, catalog services.CatalogService) *DashboardController {
	return &DashboardController{Orders: orders, Catalog: catalog}
}

type dashboardResponse struct {
	Overview     analytics.Overview       `json:"overview"`
	TopProducts  []analytics.ProductSales `json:"top_products"`
	RecentOrders []models.Order           `json:"recent_orders"`
}

// GetDashboard loads orders and products concurrently and summarises them (Admin only)
func (dc *DashboardController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var (
		orders   []models.Order
		products []models.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = dc.Orders.ListOrders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = dc.Catalog.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		utils.Error(w, err)
		return
	}

	recent := orders
	if len(recent) > dashboardRecentOrders {
		recent = recent[:dashboardRecentOrders]
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		Overview:     analytics.Summarize(orders, products),
		TopProducts:  analytics.TopProducts(orders, dashboardTopProducts),
		RecentOrders: recent,
	})
}
