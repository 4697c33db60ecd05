package controllers

import (
	"encoding/json"
	"net/http"

	"fuko-store/services"
	"fuko-store/utils"
)

// CartController handles cart-related requests
type CartController struct {
	Carts services.CartService
}

// NewCartController creates a new CartController
func NewCartController(carts services.CartService) *CartController {
	return &CartController{Carts: carts}
}

type cartResponse struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
	Total int64       `json:"total"`
}

// AddToCart adds a product to the customer's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	cart, err := cc.Carts.AddToCart(ctx, phone, req.ProductID, req.Quantity)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: cart.Items, Count: cart.Count(), Total: cart.Total()})
}

// GetCart retrieves the customer's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	cart, err := cc.Carts.GetCart(ctx, phone)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: cart.Items, Count: cart.Count(), Total: cart.Total()})
}

// RemoveFromCart removes the product given by ?product_id, or empties the cart without one
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	productID := r.URL.Query().Get("product_id")
	if productID == "" {
		if err := cc.Carts.ClearCart(ctx, phone); err != nil {
			utils.Error(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cartResponse{Items: []struct{}{}})
		return
	}

	cart, err := cc.Carts.RemoveFromCart(ctx, phone, productID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: cart.Items, Count: cart.Count(), Total: cart.Total()})
}
