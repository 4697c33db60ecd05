package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"fuko-store/models"
)

var csvHeader = []string{"Order ID", "Date", "Customer Name", "Phone", "City", "Total", "Items"}

// ReportFilename names the export of a month, e.g. Fuko_Report_Jan_2026.csv
func ReportFilename(month Month) string {
	return fmt.Sprintf("Fuko_Report_%s.csv", strings.ReplaceAll(month.String(), " ", "_"))
}

// ExportCSV writes one row per order selected by FilterOrders and returns the row count
func ExportCSV(w io.Writer, orders []models.Order, month Month, city string) (int, error) {
	selected := FilterOrders(orders, month, city)
	return len(selected), WriteCSV(w, selected)
}

// WriteCSV writes the header and one row per order
func WriteCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}
	for _, o := range orders {
		if err := cw.Write(csvRow(o)); err != nil {
			return errors.Wrapf(err, "failed to write order %s", o.ID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush csv")
}

func csvRow(o models.Order) []string {
	date := o.Date
	if t, ok := ParseOrderDate(o.Date); ok {
		date = t.Format("1/2/2006")
	}
	name := o.CustomerName
	if name == "" {
		name = "Unknown"
	}
	phone := o.CustomerPhone
	if phone == "" {
		phone = "-"
	}
	city := o.City()
	if city == "" {
		city = "-"
	}
	items := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, fmt.Sprintf("%s (x%d)", item.Name, item.Quantity))
	}
	return []string{
		o.ID,
		date,
		name,
		phone,
		city,
		strconv.FormatInt(o.Total, 10),
		strings.Join(items, "; "),
	}
}
