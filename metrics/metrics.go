package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fuko-store/models"
)

type Registry struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	OrdersPlaced         prometheus.Counter
	OrderRevenue         prometheus.Counter
	StatusChanges        *prometheus.CounterVec
	PaymentVerifications *prometheus.CounterVec
	OrdersDeleted        prometheus.Counter

	OTP *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "fuko_http_requests_total"}, []string{"route", "method", "status"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fuko_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{Name: "fuko_orders_placed_total"})
	orderRevenue := prometheus.NewCounter(prometheus.CounterOpts{Name: "fuko_orders_placed_rupees_total"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "fuko_order_status_changes_total"}, []string{"to"})
	paymentVerifications := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "fuko_payment_verifications_total"}, []string{"verified"})
	ordersDeleted := prometheus.NewCounter(prometheus.CounterOpts{Name: "fuko_orders_deleted_total"})

	otp := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "fuko_otp_requests_total"}, []string{"action", "outcome"})

	r.MustRegister(httpRequests, httpLatency, ordersPlaced, orderRevenue, statusChanges, paymentVerifications, ordersDeleted, otp)
	return &Registry{
		reg:                  r,
		HTTPRequests:         httpRequests,
		HTTPLatency:          httpLatency,
		OrdersPlaced:         ordersPlaced,
		OrderRevenue:         orderRevenue,
		StatusChanges:        statusChanges,
		PaymentVerifications: paymentVerifications,
		OrdersDeleted:        ordersDeleted,
		OTP:                  otp,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ObserveRequest records one served HTTP request
func (r *Registry) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.HTTPLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveOTP records an OTP send or check and its outcome
func (r *Registry) ObserveOTP(action, outcome string) {
	r.OTP.WithLabelValues(action, outcome).Inc()
}

// Dispatch counts order events
func (r *Registry) Dispatch(event models.Event) error {
	switch e := event.(type) {
	case models.OrderPlaced:
		r.OrdersPlaced.Inc()
		r.OrderRevenue.Add(float64(e.Order.Total))
	case models.OrderStatusChanged:
		r.StatusChanges.WithLabelValues(string(e.To)).Inc()
	case models.PaymentVerificationChanged:
		r.PaymentVerifications.WithLabelValues(strconv.FormatBool(e.Verified)).Inc()
	case models.OrderDeleted:
		r.OrdersDeleted.Inc()
	}
	return nil
}
