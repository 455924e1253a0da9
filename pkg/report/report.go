// Package report is the read side: flattened order rows, the admin CSV
// export, and the dashboard summary counters. It never mutates anything.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

// Header fixes the export column order.
var Header = []string{
	"OrderID",
	"OrderDate",
	"UserEmail",
	"BuyerName",
	"ProductID",
	"ProductName",
	"Quantity",
	"ItemPrice",
	"OrderTotal",
	"PaymentMethod",
	"PaymentStatus",
	"OrderStatus",
	"ShippingAddress",
	"ShippingCity",
	"ShippingPostalCode",
}

// BuildOrderRows flattens orders into one row per (order, item) pair. An
// order with no items still yields a single row with empty item fields.
func BuildOrderRows(orders []models.Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, order := range orders {
		orderDate := ""
		if !order.CreatedAt.IsZero() {
			orderDate = order.CreatedAt.UTC().Format(time.RFC3339)
		}
		base := func(productID, name, quantity, price string) []string {
			return []string{
				order.ID,
				orderDate,
				order.UserEmail,
				order.ShippingDetails.FullName,
				productID,
				name,
				quantity,
				price,
				order.TotalAmount,
				order.PaymentMethod,
				order.PaymentStatus,
				order.OrderStatus,
				order.ShippingDetails.Address,
				order.ShippingDetails.City,
				order.ShippingDetails.PostalCode,
			}
		}
		if len(order.Items) == 0 {
			rows = append(rows, base("", "", "", ""))
			continue
		}
		for _, item := range order.Items {
			rows = append(rows, base(item.ProductID, item.Name, fmt.Sprintf("%d", item.Quantity), item.Price))
		}
	}
	return rows
}

// WriteCSV emits the header and rows with RFC-4180 quoting: fields
// containing a comma, quote or newline are wrapped in quotes with inner
// quotes doubled, everything else is written verbatim.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary is the admin dashboard counter block.
type Summary struct {
	TotalUsers      int     `json:"totalUsers"`
	TotalAdmins     int     `json:"totalAdmins"`
	TotalProducts   int     `json:"totalProducts"`
	ActiveProducts  int     `json:"activeProducts"`
	PendingProducts int     `json:"pendingProducts"`
	TotalOrders     int     `json:"totalOrders"`
	AverageRating   float64 `json:"averageRating"`
}

// BuildSummary computes the counters. averageRating divides by
// max(len(products), 1) so an empty catalog yields 0 rather than NaN.
func BuildSummary(users []models.User, admins []models.Admin, products []models.Product, orders []models.Order) Summary {
	summary := Summary{
		TotalUsers:    len(users),
		TotalAdmins:   len(admins),
		TotalProducts: len(products),
		TotalOrders:   len(orders),
	}

	var ratingSum float64
	for _, p := range products {
		ratingSum += p.Rating
		switch {
		case p.Status == models.ProductStatusApproved && p.InStock:
			summary.ActiveProducts++
		case p.Status == models.ProductStatusPending:
			summary.PendingProducts++
		}
	}
	divisor := len(products)
	if divisor == 0 {
		divisor = 1
	}
	summary.AverageRating = ratingSum / float64(divisor)
	return summary
}

// Exporter binds the pure builders to the repository for the handlers.
type Exporter struct {
	repo store.Repository
}

func NewExporter(repo store.Repository) *Exporter {
	return &Exporter{repo: repo}
}

// OrdersCSV streams the full export, newest orders first.
func (e *Exporter) OrdersCSV(ctx context.Context, w io.Writer) error {
	orders, err := e.repo.ListOrders(ctx)
	if err != nil {
		return err
	}
	return WriteCSV(w, BuildOrderRows(orders))
}

func (e *Exporter) Summary(ctx context.Context) (Summary, error) {
	users, err := e.repo.ListUsers(ctx)
	if err != nil {
		return Summary{}, err
	}
	admins, err := e.repo.ListAdmins(ctx)
	if err != nil {
		return Summary{}, err
	}
	products, err := e.repo.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return Summary{}, err
	}
	orders, err := e.repo.ListOrders(ctx)
	if err != nil {
		return Summary{}, err
	}
	return BuildSummary(users, admins, products, orders), nil
}
