package controllers

import (
	"encoding/json"
	"net/http"

	"fuko-store/models"
	"fuko-store/services"
	"fuko-store/utils"
)

// UserController handles customer profile requests
type UserController struct {
	Profiles services.ProfileService
}

// NewUserController creates a new UserController
func NewUserController(profiles services.ProfileService) *UserController {
	return &UserController{Profiles: profiles}
}

// GetProfile returns the profile of the signed-in customer
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	profile, err := uc.Profiles.GetProfile(ctx, phone)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if profile == nil {
		profile = &models.UserProfile{Phone: phone, Addresses: []models.DeliveryAddress{}}
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile changes the customer name
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	profile, err := uc.Profiles.UpdateName(ctx, phone, req.Name)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// AddAddress appends a saved delivery address
func (uc *UserController) AddAddress(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	var address models.DeliveryAddress
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	profile, err := uc.Profiles.AddAddress(ctx, phone, address)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// UpdateAddress replaces the address at the given index
func (uc *UserController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	index, err := pathIndex(r, "index")
	if err != nil {
		utils.Error(w, err)
		return
	}
	var address models.DeliveryAddress
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	profile, err := uc.Profiles.UpdateAddress(ctx, phone, index, address)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// DeleteAddress removes the address at the given index
func (uc *UserController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	index, err := pathIndex(r, "index")
	if err != nil {
		utils.Error(w, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	profile, err := uc.Profiles.RemoveAddress(ctx, phone, index)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
