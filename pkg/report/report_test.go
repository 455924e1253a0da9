package report

import (
	"strings"
	"testing"
	"time"

	"github.com/craftloom/storefront/pkg/models"
)

func sampleOrder() models.Order {
	return models.Order{
		ID:          "ord-1",
		UserEmail:   "buyer@example.com",
		TotalMinor:  129700,
		TotalAmount: "₹1297",
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Handwoven Basket", Price: "₹499", Quantity: 2},
			{ProductID: "p2", Name: "Clay Pot", Price: "₹299", Quantity: 1},
		},
		ShippingDetails: models.ShippingDetails{
			FullName:   "Asha Rao",
			Email:      "buyer@example.com",
			Address:    "12 Lake View Road",
			City:       "Bengaluru",
			PostalCode: "560001",
		},
		PaymentMethod: models.PaymentUPI,
		PaymentStatus: models.PaymentStatusCompleted,
		OrderStatus:   models.OrderStatusPlaced,
		CreatedAt:     time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestBuildOrderRowsOneRowPerItem(t *testing.T) {
	rows := BuildOrderRows([]models.Order{sampleOrder()})
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if len(row) != len(Header) {
			t.Fatalf("row width = %d, want %d", len(row), len(Header))
		}
	}

	first := rows[0]
	if first[0] != "ord-1" || first[1] != "2025-03-14T09:30:00Z" || first[3] != "Asha Rao" {
		t.Errorf("order columns = %v", first[:4])
	}
	if first[4] != "p1" || first[5] != "Handwoven Basket" || first[6] != "2" || first[7] != "₹499" {
		t.Errorf("item columns = %v", first[4:8])
	}
	if first[8] != "₹1297" {
		t.Errorf("order total column = %q", first[8])
	}
	// Order-level columns repeat on every row.
	if rows[1][0] != "ord-1" || rows[1][8] != "₹1297" {
		t.Errorf("second row order columns = %v", rows[1])
	}
	if rows[1][4] != "p2" || rows[1][6] != "1" {
		t.Errorf("second row item columns = %v", rows[1])
	}
}

func TestBuildOrderRowsZeroItemOrder(t *testing.T) {
	order := sampleOrder()
	order.Items = nil

	rows := BuildOrderRows([]models.Order{order})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row[0] != "ord-1" {
		t.Errorf("order id = %q", row[0])
	}
	for i := 4; i <= 7; i++ {
		if row[i] != "" {
			t.Errorf("item column %d = %q, want empty", i, row[i])
		}
	}
}

func TestWriteCSVEscaping(t *testing.T) {
	order := sampleOrder()
	order.Items = []models.OrderItem{{ProductID: "p1", Name: `O'Brien, "Ltd"`, Price: "₹499", Quantity: 1}}
	order.ShippingDetails.Address = "Flat 2\nMill Lane"

	var sb strings.Builder
	if err := WriteCSV(&sb, BuildOrderRows([]models.Order{order})); err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	if !strings.HasPrefix(out, strings.Join(Header, ",")+"\n") {
		t.Errorf("missing header: %q", out[:80])
	}
	if !strings.Contains(out, `"O'Brien, ""Ltd"""`) {
		t.Errorf("comma/quote field not escaped: %q", out)
	}
	if !strings.Contains(out, "\"Flat 2\nMill Lane\"") {
		t.Errorf("newline field not quoted: %q", out)
	}
	// Plain fields stay unquoted.
	if !strings.Contains(out, ",Bengaluru,") {
		t.Errorf("plain field altered: %q", out)
	}
}

func TestBuildSummaryCounters(t *testing.T) {
	products := []models.Product{
		{Status: models.ProductStatusApproved, InStock: true, Rating: 4.0},
		{Status: models.ProductStatusApproved, InStock: false, Rating: 5.0},
		{Status: models.ProductStatusPending, Rating: 3.0},
	}
	users := []models.User{{Email: "a@example.com"}, {Email: "b@example.com"}}
	admins := []models.Admin{{Email: "root@example.com"}}
	orders := []models.Order{sampleOrder()}

	s := BuildSummary(users, admins, products, orders)
	if s.TotalUsers != 2 || s.TotalAdmins != 1 || s.TotalProducts != 3 || s.TotalOrders != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if s.ActiveProducts != 1 {
		t.Errorf("activeProducts = %d, want 1", s.ActiveProducts)
	}
	if s.PendingProducts != 1 {
		t.Errorf("pendingProducts = %d, want 1", s.PendingProducts)
	}
	if s.AverageRating != 4.0 {
		t.Errorf("averageRating = %v, want 4.0", s.AverageRating)
	}
}

func TestBuildSummaryEmptyCatalog(t *testing.T) {
	s := BuildSummary(nil, nil, nil, nil)
	if s.AverageRating != 0 {
		t.Fatalf("averageRating = %v, want 0 for empty catalog", s.AverageRating)
	}
}
