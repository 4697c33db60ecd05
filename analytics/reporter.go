package analytics

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"fuko-store/models"
)

// OrderLister loads the full order history
type OrderLister interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// OrderListerFunc adapts a plain function to OrderLister
type OrderListerFunc func(ctx context.Context) ([]models.Order, error)

func (f OrderListerFunc) ListOrders(ctx context.Context) ([]models.Order, error) {
	return f(ctx)
}

// Reporter memoises monthly reports per month and city.
// It is also an event dispatcher: any order event drops the cache.
type Reporter struct {
	orders OrderLister

	mu      sync.RWMutex
	reports map[string]Report
	gen     uint64
	group   singleflight.Group
}

func NewReporter(orders OrderLister) *Reporter {
	return &Reporter{orders: orders, reports: make(map[string]Report)}
}

// MonthlyReport returns the cached report or computes it from a fresh order list
func (r *Reporter) MonthlyReport(ctx context.Context, month Month, city string) (Report, error) {
	key := month.String() + "|" + city

	r.mu.RLock()
	report, ok := r.reports[key]
	gen := r.gen
	r.mu.RUnlock()
	if ok {
		return report, nil
	}

	// callers that arrive after an order event never join a load started before it
	v, err, _ := r.group.Do(key+"#"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		orders, err := r.orders.ListOrders(ctx)
		if err != nil {
			return nil, err
		}
		report := MonthlyReport(orders, month, city)
		r.mu.Lock()
		// an order event during the load makes this report stale
		if r.gen == gen {
			r.reports[key] = report
		}
		r.mu.Unlock()
		return report, nil
	})
	if err != nil {
		return Report{}, err
	}
	return v.(Report), nil
}

// Invalidate drops every cached report
func (r *Reporter) Invalidate() {
	r.mu.Lock()
	r.reports = make(map[string]Report)
	r.gen++
	r.mu.Unlock()
}

func (r *Reporter) Dispatch(models.Event) error {
	r.Invalidate()
	return nil
}
