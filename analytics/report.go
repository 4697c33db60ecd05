package analytics

import (
	"math"
	"sort"

	"fuko-store/models"
)

type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

type CustomerTotal struct {
	Name   string `json:"name"`
	Spend  int64  `json:"spend"`
	Orders int    `json:"orders"`
}

type CityTotal struct {
	Name    string `json:"name"`
	Revenue int64  `json:"revenue"`
	Orders  int    `json:"orders"`
}

// Report is the monthly summary for a month and optional city
type Report struct {
	Month           string          `json:"month"`
	City            string          `json:"city,omitempty"`
	AvailableCities []string        `json:"available_cities"`
	Revenue         int64           `json:"revenue"`
	Orders          int             `json:"orders"`
	Products        []ProductSales  `json:"products"`
	Customers       []CustomerTotal `json:"customers"`
	Cities          []CityTotal     `json:"cities"`
	TopCustomer     *CustomerTotal  `json:"top_customer"`
	TopCity         *CityTotal      `json:"top_city"`
}

// MonthlyReport aggregates the orders selected by FilterOrders.
// Rankings break ties by name so the output is deterministic.
func MonthlyReport(orders []models.Order, month Month, city string) Report {
	selected := FilterOrders(orders, month, city)
	report := Report{
		Month:           month.String(),
		City:            city,
		AvailableCities: CitiesInMonth(orders, month),
		Products:        productSales(selected),
		Customers:       []CustomerTotal{},
		Cities:          []CityTotal{},
	}

	customers := make(map[string]*CustomerTotal)
	cities := make(map[string]*CityTotal)
	for _, o := range selected {
		report.Revenue += o.Total
		report.Orders++

		name := o.CustomerName
		if name == "" {
			name = UnknownCustomer
		}
		c, ok := customers[name]
		if !ok {
			c = &CustomerTotal{Name: name}
			customers[name] = c
		}
		c.Spend += o.Total
		c.Orders++

		cityName := o.City()
		if cityName == "" {
			cityName = UnknownLocation
		}
		ct, ok := cities[cityName]
		if !ok {
			ct = &CityTotal{Name: cityName}
			cities[cityName] = ct
		}
		ct.Revenue += o.Total
		ct.Orders++
	}

	for _, c := range customers {
		report.Customers = append(report.Customers, *c)
	}
	sort.SliceStable(report.Customers, func(i, j int) bool {
		a, b := report.Customers[i], report.Customers[j]
		if a.Spend != b.Spend {
			return a.Spend > b.Spend
		}
		return a.Name < b.Name
	})
	for _, ct := range cities {
		report.Cities = append(report.Cities, *ct)
	}
	sort.SliceStable(report.Cities, func(i, j int) bool {
		a, b := report.Cities[i], report.Cities[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})

	if len(report.Customers) > 0 {
		top := report.Customers[0]
		report.TopCustomer = &top
	}
	if len(report.Cities) > 0 {
		top := report.Cities[0]
		report.TopCity = &top
	}
	return report
}

// productSales sums quantity and revenue per product id, highest revenue first
func productSales(orders []models.Order) []ProductSales {
	byID := make(map[string]*ProductSales)
	for _, o := range orders {
		for _, item := range o.Items {
			p, ok := byID[item.ProductID]
			if !ok {
				p = &ProductSales{ProductID: item.ProductID, Name: item.Name}
				byID[item.ProductID] = p
			}
			p.Quantity += item.Quantity
			p.Revenue += item.Subtotal()
		}
	}
	sales := make([]ProductSales, 0, len(byID))
	for _, p := range byID {
		sales = append(sales, *p)
	}
	sort.SliceStable(sales, func(i, j int) bool {
		if sales[i].Revenue != sales[j].Revenue {
			return sales[i].Revenue > sales[j].Revenue
		}
		if sales[i].Name != sales[j].Name {
			return sales[i].Name < sales[j].Name
		}
		return sales[i].ProductID < sales[j].ProductID
	})
	return sales
}

// TopProducts ranks all-time valid sales by revenue and keeps the first n
func TopProducts(orders []models.Order, n int) []ProductSales {
	sales := productSales(ValidOrders(orders))
	if n >= 0 && len(sales) > n {
		sales = sales[:n]
	}
	return sales
}

type Reach struct {
	Pincode string `json:"pincode"`
	City    string `json:"city"`
	Count   int    `json:"count"`
}

// NetworkReach counts all-time valid orders per postal code, most orders first
func NetworkReach(orders []models.Order) []Reach {
	byPin := make(map[string]*Reach)
	for _, o := range ValidOrders(orders) {
		pin := o.Pincode()
		if pin == "" {
			pin = UnknownPincode
		}
		r, ok := byPin[pin]
		if !ok {
			city := o.City()
			if city == "" {
				city = UnknownLocation
			}
			r = &Reach{Pincode: pin, City: city}
			byPin[pin] = r
		}
		r.Count++
	}
	reach := make([]Reach, 0, len(byPin))
	for _, r := range byPin {
		reach = append(reach, *r)
	}
	sort.SliceStable(reach, func(i, j int) bool {
		if reach[i].Count != reach[j].Count {
			return reach[i].Count > reach[j].Count
		}
		return reach[i].Pincode < reach[j].Pincode
	})
	return reach
}

type Overview struct {
	TotalOrders    int   `json:"total_orders"`
	Revenue        int64 `json:"revenue"`
	AvgOrder       int64 `json:"avg_order"`
	ActiveProducts int   `json:"active_products"`
}

// Summarize computes the all-time dashboard figures
func Summarize(orders []models.Order, products []models.Product) Overview {
	var overview Overview
	for _, o := range ValidOrders(orders) {
		overview.TotalOrders++
		overview.Revenue += o.Total
	}
	if overview.TotalOrders > 0 {
		overview.AvgOrder = int64(math.Round(float64(overview.Revenue) / float64(overview.TotalOrders)))
	}
	for _, p := range products {
		if !p.IsHidden {
			overview.ActiveProducts++
		}
	}
	return overview
}
