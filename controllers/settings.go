package controllers

import (
	"encoding/json"
	"net/http"

	"fuko-store/models"
	"fuko-store/services"
	"fuko-store/utils"
)

// SettingsController serves the editable storefront content
type SettingsController struct {
	Settings services.SettingsService
}

func NewSettingsController(settings services.SettingsService) *SettingsController {
	return &SettingsController{Settings: settings}
}

// GetSettings always answers; missing or unreadable settings fall back to defaults
func (sc *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	writeJSON(w, http.StatusOK, sc.Settings.Get(ctx))
}

// UpdateSettings replaces the stored settings (Admin only)
func (sc *SettingsController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.SiteSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := sc.Settings.Save(ctx, settings); err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
