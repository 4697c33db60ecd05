// controllers/order.go
package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"fuko-store/models"
	"fuko-store/services"
	"fuko-store/utils"
)

// OrderController handles order-related requests
type OrderController struct {
	Orders services.OrderService
}

// NewOrderController creates a new OrderController
func NewOrderController(orders services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// GetOrders lists the signed-in customer's orders, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	orders, err := oc.Orders.ListOrdersForCustomer(ctx, phone)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder returns one of the signed-in customer's orders
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	order, err := oc.Orders.GetOrder(ctx, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	if order.CustomerPhone != phone {
		utils.Error(w, models.ErrOrderNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// ListOrders lists every order, optionally filtered by ?status (Admin only)
func (oc *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	status := models.OrderStatus(r.URL.Query().Get("status"))
	if status == "All" {
		status = ""
	}
	orders, err := oc.Orders.ListOrdersByStatus(ctx, status)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus sets the fulfilment status (Admin only)
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	id := mux.Vars(r)["id"]
	if err := oc.Orders.UpdateStatus(ctx, id, req.Status); err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "status": req.Status})
}

// UpdateOrderPaymentStatus marks the payment proof as verified or not (Admin only)
func (oc *OrderController) UpdateOrderPaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Verified *bool `json:"is_payment_verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Verified == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	id := mux.Vars(r)["id"]
	if err := oc.Orders.SetPaymentVerified(ctx, id, *req.Verified); err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "is_payment_verified": *req.Verified})
}

// DeleteOrder removes an order permanently (Admin only)
func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := oc.Orders.DeleteOrder(ctx, mux.Vars(r)["id"]); err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}
