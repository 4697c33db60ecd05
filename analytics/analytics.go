// Package analytics derives the admin reports from the order history.
//
// Every function here is pure over an in-memory order list. Only "valid"
// orders count: an order still Processing counts once its payment proof has
// been verified.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"fuko-store/models"
)

const (
	// UnknownCity labels orders without a delivery city in filters
	UnknownCity = "Unknown"
	// UnknownLocation labels orders without a delivery city in city totals
	UnknownLocation = "Unknown Location"
	// UnknownCustomer labels orders without a customer name
	UnknownCustomer = "Walk-in / Unknown"
	// UnknownPincode labels orders without a postal code
	UnknownPincode = "Unknown"
)

const monthLayout = "Jan 2006"

var dateLayouts = []string{
	models.OrderDateLayout,
	"January 2, 2006",
	"Jan 02, 2006",
	"2006-01-02",
	time.RFC3339,
	"1/2/2006",
}

// IsValid reports whether an order counts toward revenue and order totals
func IsValid(o models.Order) bool {
	return o.Status != models.StatusProcessing || o.IsPaymentVerified
}

// ValidOrders keeps the orders that pass IsValid, preserving order
func ValidOrders(orders []models.Order) []models.Order {
	valid := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if IsValid(o) {
			valid = append(valid, o)
		}
	}
	return valid
}

// Month is a calendar month bucket
type Month struct {
	Year  int
	Month time.Month
}

func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout)
}

func (m Month) before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// ParseMonth parses a month key such as "Jan 2026"
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, errors.Wrapf(err, "invalid month %q", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// ParseOrderDate reads the display date of an order
func ParseOrderDate(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthOf returns the bucket of an order; false when its date does not parse
func MonthOf(o models.Order) (Month, bool) {
	t, ok := ParseOrderDate(o.Date)
	if !ok {
		return Month{}, false
	}
	return Month{Year: t.Year(), Month: t.Month()}, true
}

// AvailableMonths lists the months holding at least one order, newest first
func AvailableMonths(orders []models.Order) []Month {
	seen := make(map[Month]bool)
	var months []Month
	for _, o := range orders {
		m, ok := MonthOf(o)
		if !ok || seen[m] {
			continue
		}
		seen[m] = true
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[j].before(months[i]) })
	return months
}

// CityOf returns the delivery city used by the city filter
func CityOf(o models.Order) string {
	if city := o.City(); city != "" {
		return city
	}
	return UnknownCity
}

// MonthOrders returns the valid orders of month
func MonthOrders(orders []models.Order, month Month) []models.Order {
	var result []models.Order
	for _, o := range orders {
		m, ok := MonthOf(o)
		if ok && m == month && IsValid(o) {
			result = append(result, o)
		}
	}
	return result
}

// CitiesInMonth lists the sorted distinct cities of the valid orders of month
func CitiesInMonth(orders []models.Order, month Month) []string {
	seen := make(map[string]bool)
	cities := []string{}
	for _, o := range MonthOrders(orders, month) {
		city := CityOf(o)
		if !seen[city] {
			seen[city] = true
			cities = append(cities, city)
		}
	}
	sort.Strings(cities)
	return cities
}

// FilterOrders returns the valid orders of month, restricted to city when it is not empty
func FilterOrders(orders []models.Order, month Month, city string) []models.Order {
	base := MonthOrders(orders, month)
	if city == "" {
		return base
	}
	filtered := make([]models.Order, 0, len(base))
	for _, o := range base {
		if CityOf(o) == city {
			filtered = append(filtered, o)
		}
	}
	return filtered
}
