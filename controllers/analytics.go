package controllers

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"fuko-store/analytics"
	"fuko-store/models"
	"fuko-store/services"
	"fuko-store/utils"
)

// ReportSource produces memoised monthly reports
type ReportSource interface {
	MonthlyReport(ctx context.Context, month analytics.Month, city string) (analytics.Report, error)
}

// AnalyticsController serves the admin analytics views
type AnalyticsController struct {
	Orders  services.OrderService
	Reports ReportSource
	Now     func() time.Time
}

func NewAnalyticsController(orders services.OrderService, reports ReportSource) *AnalyticsController {
	return &AnalyticsController{Orders: orders, Reports: reports, Now: time.Now}
}

type analyticsResponse struct {
	Months []string         `json:"months"`
	Report analytics.Report `json:"report"`
}

// selectMonth reads ?month, defaulting to the newest month with orders
func (ac *AnalyticsController) selectMonth(r *http.Request, orders []models.Order) (analytics.Month, []analytics.Month, error) {
	months := analytics.AvailableMonths(orders)
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := analytics.ParseMonth(raw)
		if err != nil {
			return month, months, models.NewValidationError("month", "expected a month such as Jan 2026")
		}
		return month, months, nil
	}
	if len(months) > 0 {
		return months[0], months, nil
	}
	now := ac.Now()
	return analytics.Month{Year: now.Year(), Month: now.Month()}, months, nil
}

// GetReport returns the monthly report for ?month and ?city (Admin only)
func (ac *AnalyticsController) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	orders, err := ac.Orders.ListOrders(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	month, months, err := ac.selectMonth(r, orders)
	if err != nil {
		utils.Error(w, err)
		return
	}
	report, err := ac.Reports.MonthlyReport(ctx, month, r.URL.Query().Get("city"))
	if err != nil {
		utils.Error(w, err)
		return
	}

	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.String()
	}
	writeJSON(w, http.StatusOK, analyticsResponse{Months: names, Report: report})
}

// GetNetworkReach returns the all-time order count per postal code (Admin only)
func (ac *AnalyticsController) GetNetworkReach(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	orders, err := ac.Orders.ListOrders(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.NetworkReach(orders))
}

// ExportReport downloads the filtered month as CSV (Admin only)
func (ac *AnalyticsController) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	orders, err := ac.Orders.ListOrders(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	month, _, err := ac.selectMonth(r, orders)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var buf bytes.Buffer
	rows, err := analytics.ExportCSV(&buf, orders, month, r.URL.Query().Get("city"))
	if err != nil {
		log.WithError(err).Error("Failed to write report")
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+analytics.ReportFilename(month)+`"`)
	w.Header().Set("X-Report-Rows", strconv.Itoa(rows))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.WithError(err).Warn("Failed to send report")
	}
}
