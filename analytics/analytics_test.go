package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuko-store/models"
)

func order(id, date string, status models.OrderStatus, verified bool, name, city, pin string, items ...models.OrderItem) models.Order {
	o := models.Order{
		ID:                id,
		Date:              date,
		Status:            status,
		Items:             items,
		Total:             models.ItemsTotal(items),
		CustomerName:      name,
		CustomerPhone:     "9876543210",
		IsPaymentVerified: verified,
	}
	if city != "" || pin != "" {
		o.DeliveryAddress = &models.DeliveryAddress{City: city, Pincode: pin}
	}
	return o
}

func light(qty int) models.OrderItem {
	return models.OrderItem{ProductID: "light-soils-blend", Name: "Light Soils Blend", Price: 550, Quantity: qty}
}

func dark(qty int) models.OrderItem {
	return models.OrderItem{ProductID: "dark-soils-blend", Name: "Dark Soils Blend", Price: 580, Quantity: qty}
}

func turkish(qty int) models.OrderItem {
	return models.OrderItem{ProductID: "turkish-blend", Name: "Turkish Blend", Price: 600, Quantity: qty}
}

var jan26 = Month{Year: 2026, Month: time.January}

func fixture() []models.Order {
	return []models.Order{
		order("ORD-1", "Jan 5, 2026", models.StatusDelivered, false, "Asha", "Pune", "411001", light(2)),
		order("ORD-2", "Jan 9, 2026", models.StatusProcessing, true, "Ravi", "Mumbai", "400001", turkish(1)),
		order("ORD-3", "Jan 12, 2026", models.StatusProcessing, false, "Asha", "Pune", "411001", dark(5)),
		order("ORD-4", "Feb 1, 2026", models.StatusShipped, false, "", "", "", light(1)),
		order("ORD-5", "Dec 30, 2025", models.StatusCancelled, false, "Meera", "Pune", "411002", dark(1)),
		order("ORD-6", "not a date", models.StatusDelivered, false, "Zed", "Delhi", "110001", light(1)),
	}
}

func TestIsValid(t *testing.T) {
	unverified := models.Order{Status: models.StatusProcessing}
	assert.False(t, IsValid(unverified))

	unverified.IsPaymentVerified = true
	assert.True(t, IsValid(unverified))

	for _, s := range []models.OrderStatus{models.StatusShipped, models.StatusOutForDelivery, models.StatusDelivered, models.StatusCancelled} {
		assert.True(t, IsValid(models.Order{Status: s}), s)
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("Jan 2026")
	require.NoError(t, err)
	assert.Equal(t, jan26, m)
	assert.Equal(t, "Jan 2026", m.String())

	_, err = ParseMonth("2026-01")
	assert.Error(t, err)
}

func TestAvailableMonths(t *testing.T) {
	months := AvailableMonths(fixture())
	require.Len(t, months, 3)
	assert.Equal(t, "Feb 2026", months[0].String())
	assert.Equal(t, "Jan 2026", months[1].String())
	assert.Equal(t, "Dec 2025", months[2].String())
}

func TestMonthBucketsCoverValidOrders(t *testing.T) {
	orders := fixture()
	total := 0
	for _, m := range AvailableMonths(orders) {
		total += len(MonthOrders(orders, m))
	}

	datedValid := 0
	for _, o := range ValidOrders(orders) {
		if _, ok := MonthOf(o); ok {
			datedValid++
		}
	}
	assert.Equal(t, datedValid, total)
	assert.Equal(t, 4, total)
}

func TestMonthlyReport(t *testing.T) {
	t.Run("scenario from two valid orders", func(t *testing.T) {
		orders := []models.Order{
			order("ORD-A", "Jan 3, 2026", models.StatusDelivered, false, "Asha", "Pune", "411001", light(2)),
			order("ORD-B", "Jan 4, 2026", models.StatusProcessing, true, "Ravi", "Pune", "411001", turkish(1)),
		}
		report := MonthlyReport(orders, jan26, "")
		assert.Equal(t, int64(1700), report.Revenue)
		assert.Equal(t, 2, report.Orders)
		require.NotNil(t, report.TopCustomer)
		assert.Equal(t, "Asha", report.TopCustomer.Name)
		assert.Equal(t, int64(1100), report.TopCustomer.Spend)
		require.NotNil(t, report.TopCity)
		assert.Equal(t, "Pune", report.TopCity.Name)
		assert.Equal(t, int64(1700), report.TopCity.Revenue)
	})

	t.Run("unverified processing order is excluded", func(t *testing.T) {
		report := MonthlyReport(fixture(), jan26, "")
		assert.Equal(t, 2, report.Orders)
		assert.Equal(t, int64(1100+600), report.Revenue)
		for _, p := range report.Products {
			assert.NotEqual(t, "dark-soils-blend", p.ProductID)
		}
	})

	t.Run("city filter", func(t *testing.T) {
		report := MonthlyReport(fixture(), jan26, "Mumbai")
		assert.Equal(t, 1, report.Orders)
		assert.Equal(t, int64(600), report.Revenue)
		assert.Equal(t, []string{"Mumbai", "Pune"}, report.AvailableCities)
	})

	t.Run("fallback labels", func(t *testing.T) {
		feb := Month{Year: 2026, Month: time.February}
		report := MonthlyReport(fixture(), feb, "")
		require.NotNil(t, report.TopCustomer)
		assert.Equal(t, UnknownCustomer, report.TopCustomer.Name)
		assert.Equal(t, UnknownLocation, report.TopCity.Name)
		assert.Equal(t, []string{UnknownCity}, report.AvailableCities)
		assert.Len(t, FilterOrders(fixture(), feb, UnknownCity), 1)
	})

	t.Run("ties break by name", func(t *testing.T) {
		orders := []models.Order{
			order("ORD-1", "Jan 3, 2026", models.StatusDelivered, false, "Zara", "Surat", "395001", light(1)),
			order("ORD-2", "Jan 3, 2026", models.StatusDelivered, false, "Anil", "Agra", "282001", light(1)),
		}
		report := MonthlyReport(orders, jan26, "")
		assert.Equal(t, "Anil", report.TopCustomer.Name)
		assert.Equal(t, "Agra", report.TopCity.Name)
	})

	t.Run("empty month", func(t *testing.T) {
		report := MonthlyReport(fixture(), Month{Year: 2024, Month: time.March}, "")
		assert.Zero(t, report.Orders)
		assert.Nil(t, report.TopCustomer)
		assert.Nil(t, report.TopCity)
	})
}

func TestProductBreakdownSumsLines(t *testing.T) {
	orders := []models.Order{
		order("ORD-1", "Jan 3, 2026", models.StatusDelivered, false, "Asha", "Pune", "411001", light(2), turkish(1)),
		order("ORD-2", "Jan 4, 2026", models.StatusDelivered, false, "Ravi", "Pune", "411001", light(1)),
	}
	report := MonthlyReport(orders, jan26, "")
	require.Len(t, report.Products, 2)
	assert.Equal(t, ProductSales{ProductID: "light-soils-blend", Name: "Light Soils Blend", Quantity: 3, Revenue: 1650}, report.Products[0])
	assert.Equal(t, int64(600), report.Products[1].Revenue)
}

func TestNetworkReach(t *testing.T) {
	reach := NetworkReach(fixture())
	require.Len(t, reach, 5, "the unverified processing order is not counted")
	assert.Equal(t, Reach{Pincode: "110001", City: "Delhi", Count: 1}, reach[0], "equal counts sort by pincode")

	extra := order("ORD-7", "Mar 1, 2026", models.StatusShipped, false, "Asha", "Pune", "411001", light(1))
	reach = NetworkReach(append(fixture(), extra))
	assert.Equal(t, Reach{Pincode: "411001", City: "Pune", Count: 2}, reach[0])

	pins := map[string]int{}
	for _, r := range reach {
		pins[r.Pincode] = r.Count
	}
	assert.Equal(t, 1, pins[UnknownPincode])
	assert.NotContains(t, pins, "", "blank pincodes use the fallback label")
	for i := 1; i < len(reach); i++ {
		assert.GreaterOrEqual(t, reach[i-1].Count, reach[i].Count)
	}
}

func TestSummarizeAndTopProducts(t *testing.T) {
	products := []models.Product{{ID: "a"}, {ID: "b", IsHidden: true}, {ID: "c", IsAvailable: false}}
	overview := Summarize(fixture(), products)
	assert.Equal(t, 5, overview.TotalOrders)
	assert.Equal(t, int64(1100+600+550+580+550), overview.Revenue)
	assert.Equal(t, int64(676), overview.AvgOrder)
	assert.Equal(t, 2, overview.ActiveProducts)

	top := TopProducts(fixture(), 3)
	require.Len(t, top, 3)
	assert.Equal(t, "light-soils-blend", top[0].ProductID)
	assert.Equal(t, int64(2200), top[0].Revenue)
}

func TestExportCSV(t *testing.T) {
	orders := fixture()
	orders[0].CustomerName = "Asha, Jr."

	var buf bytes.Buffer
	rows, err := ExportCSV(&buf, orders, jan26, "")
	require.NoError(t, err)
	assert.Equal(t, len(FilterOrders(orders, jan26, "")), rows)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, rows+1)
	assert.Equal(t, []string{"Order ID", "Date", "Customer Name", "Phone", "City", "Total", "Items"}, records[0])
	assert.Equal(t, []string{"ORD-1", "1/5/2026", "Asha, Jr.", "9876543210", "Pune", "1100", "Light Soils Blend (x2)"}, records[1])

	t.Run("city filter changes row count", func(t *testing.T) {
		var buf bytes.Buffer
		rows, err := ExportCSV(&buf, orders, jan26, "Mumbai")
		require.NoError(t, err)
		assert.Equal(t, 1, rows)
	})

	t.Run("missing fields", func(t *testing.T) {
		row := csvRow(models.Order{ID: "ORD-X", Date: "Feb 1, 2026", Items: []models.OrderItem{light(1), turkish(2)}})
		assert.Equal(t, []string{"ORD-X", "2/1/2026", "Unknown", "-", "-", "0", "Light Soils Blend (x1); Turkish Blend (x2)"}, row)
	})
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "Fuko_Report_Jan_2026.csv", ReportFilename(jan26))
}

type countingLister struct {
	orders []models.Order
	calls  int
	err    error
}

func (l *countingLister) ListOrders(context.Context) ([]models.Order, error) {
	l.calls++
	return l.orders, l.err
}

func TestReporterMemoisesUntilEvent(t *testing.T) {
	lister := &countingLister{orders: fixture()}
	reporter := NewReporter(lister)
	ctx := context.Background()

	first, err := reporter.MonthlyReport(ctx, jan26, "")
	require.NoError(t, err)
	second, err := reporter.MonthlyReport(ctx, jan26, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lister.calls)

	_, err = reporter.MonthlyReport(ctx, jan26, "Pune")
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls, "city is part of the cache key")

	require.NoError(t, reporter.Dispatch(models.OrderDeleted{OrderID: "ORD-1"}))
	_, err = reporter.MonthlyReport(ctx, jan26, "")
	require.NoError(t, err)
	assert.Equal(t, 3, lister.calls)
}

func TestReporterDoesNotCacheFailures(t *testing.T) {
	lister := &countingLister{err: errors.New("db down")}
	reporter := NewReporter(lister)

	_, err := reporter.MonthlyReport(context.Background(), jan26, "")
	require.Error(t, err)

	lister.err = nil
	lister.orders = fixture()
	report, err := reporter.MonthlyReport(context.Background(), jan26, "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Orders)
}

type blockingLister struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
	orders  [][]models.Order
}

func (l *blockingLister) ListOrders(context.Context) ([]models.Order, error) {
	l.mu.Lock()
	call := l.calls
	l.calls++
	l.mu.Unlock()
	if call == 0 {
		close(l.entered)
		<-l.release
	}
	return l.orders[call], nil
}

func TestReporterLoadAfterEventIsFresh(t *testing.T) {
	all := fixture()
	lister := &blockingLister{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		orders:  [][]models.Order{all[1:], all},
	}
	reporter := NewReporter(lister)
	ctx := context.Background()

	stale := make(chan Report, 1)
	go func() {
		report, _ := reporter.MonthlyReport(ctx, jan26, "")
		stale <- report
	}()
	<-lister.entered

	require.NoError(t, reporter.Dispatch(models.OrderStatusChanged{OrderID: "ORD-1"}))
	fresh, err := reporter.MonthlyReport(ctx, jan26, "")
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Orders)

	close(lister.release)
	assert.Equal(t, 1, (<-stale).Orders)

	cached, err := reporter.MonthlyReport(ctx, jan26, "")
	require.NoError(t, err)
	assert.Equal(t, fresh, cached)
	assert.Equal(t, 2, lister.calls)
}
