package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"fuko-store/models"
	"fuko-store/services"
	"fuko-store/utils"
)

// ProductController handles product-related requests
type ProductController struct {
	Catalog services.CatalogService
}

// NewProductController creates a new ProductController
func NewProductController(catalog services.CatalogService) *ProductController {
	return &ProductController{Catalog: catalog}
}

// GetProducts lists the products customers can buy
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	products, err := pc.Catalog.ListStorefront(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProductByID returns one storefront product; hidden products are not found
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	product, err := pc.Catalog.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	if product.IsHidden {
		utils.Error(w, models.ErrProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ListAllProducts lists hidden and unavailable products too (Admin only)
func (pc *ProductController) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	products, err := pc.Catalog.ListAll(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateProduct inserts a product or replaces the one with the same id (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	pc.save(w, r, in, http.StatusCreated)
}

// UpdateProduct replaces the product named in the path (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	in.ID = mux.Vars(r)["id"]
	pc.save(w, r, in, http.StatusOK)
}

func (pc *ProductController) save(w http.ResponseWriter, r *http.Request, in models.ProductInput, status int) {
	ctx, cancel := requestContext(r)
	defer cancel()

	product, err := pc.Catalog.Save(ctx, in)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, status, product)
}

// DeleteProduct removes a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := pc.Catalog.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// ToggleHidden flips the hidden flag (Admin only)
func (pc *ProductController) ToggleHidden(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	product, err := pc.Catalog.ToggleHidden(ctx, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// AddImage appends an image URL (Admin only)
func (pc *ProductController) AddImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	product, err := pc.Catalog.AddImage(ctx, mux.Vars(r)["id"], req.Image)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// MoveImage swaps an image with its left or right neighbour (Admin only)
func (pc *ProductController) MoveImage(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		utils.Error(w, err)
		return
	}
	var req struct {
		Direction models.ImageDirection `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	product, err := pc.Catalog.MoveImage(ctx, mux.Vars(r)["id"], index, req.Direction)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// RemoveImage drops the image at index (Admin only)
func (pc *ProductController) RemoveImage(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		utils.Error(w, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	product, err := pc.Catalog.RemoveImage(ctx, mux.Vars(r)["id"], index)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
