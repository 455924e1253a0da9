// Package filestore is the flat-file fallback Repository: one JSON file per
// collection under a data directory. It exists so the storefront keeps
// working when MongoDB is unreachable; it is selected once at startup, not
// branched per call site.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

const (
	fileProducts  = "products.json"
	fileCarts     = "carts.json"
	fileOrders    = "orders.json"
	fileUsers     = "users.json"
	fileAdmins    = "admins.json"
	fileOutbox    = "outbox.json"
	fileStockLogs = "stock_logs.json"
)

// Store implements store.Repository over JSON files. A single RW mutex
// serializes writes, which also makes AdjustStock all-or-nothing.
type Store struct {
	dir string
	mu  sync.RWMutex
}

var _ store.Repository = (*Store)(nil)

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func readList[T any](s *Store, file string) ([]T, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, file))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []T
	if len(raw) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	return items, nil
}

// writeList replaces a collection file atomically via temp-file rename so a
// concurrent reader never observes a torn write.
func writeList[T any](s *Store, file string, items []T) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	target := filepath.Join(s.dir, file)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// Products

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := readList[models.Product](s, fileProducts)
	if err != nil {
		return err
	}
	products = append(products, *p)
	return writeList(s, fileProducts, products)
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products, err := readList[models.Product](s, fileProducts)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func matchesFilter(p *models.Product, f models.ProductFilter) bool {
	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	if f.Search != "" && !contains(p.Name, f.Search) && !contains(p.Material, f.Search) && !contains(p.Category, f.Search) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Material != "" && !contains(p.Material, f.Material) {
		return false
	}
	if f.MinRating > 0 && p.Rating < f.MinRating {
		return false
	}
	if f.MaxRating > 0 && p.Rating > f.MaxRating {
		return false
	}
	if f.Owner != "" && p.Owner != f.Owner {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return true
}

func (s *Store) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products, err := readList[models.Product](s, fileProducts)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Product, 0, len(products))
	for i := range products {
		if matchesFilter(&products[i], filter) {
			matched = append(matched, products[i])
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (s *Store) ReplaceProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := readList[models.Product](s, fileProducts)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = *p
			return writeList(s, fileProducts, products)
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := readList[models.Product](s, fileProducts)
	if err != nil {
		return err
	}
	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return store.ErrNotFound
	}
	return writeList(s, fileProducts, kept)
}

func (s *Store) AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := readList[models.Product](s, fileProducts)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID != id {
			continue
		}
		if delta < 0 && products[i].Stock+delta < 0 {
			return nil, store.ErrInsufficientStock
		}
		products[i].Stock += delta
		products[i].RecomputeInStock()
		products[i].UpdatedAt = time.Now()
		if err := writeList(s, fileProducts, products); err != nil {
			return nil, err
		}
		updated := products[i]
		return &updated, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) SetStock(ctx context.Context, id string, stock int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := readList[models.Product](s, fileProducts)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID != id {
			continue
		}
		products[i].Stock = stock
		products[i].RecomputeInStock()
		products[i].UpdatedAt = time.Now()
		if err := writeList(s, fileProducts, products); err != nil {
			return nil, err
		}
		updated := products[i]
		return &updated, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) AppendStockLog(ctx context.Context, entry *models.StockLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs, err := readList[models.StockLog](s, fileStockLogs)
	if err != nil {
		return err
	}
	logs = append(logs, *entry)
	return writeList(s, fileStockLogs, logs)
}

// Carts

func (s *Store) GetCart(ctx context.Context, userEmail string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	carts, err := readList[models.Cart](s, fileCarts)
	if err != nil {
		return nil, err
	}
	for i := range carts {
		if carts[i].UserEmail == userEmail {
			return &carts[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpsertCart(ctx context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	carts, err := readList[models.Cart](s, fileCarts)
	if err != nil {
		return err
	}
	for i := range carts {
		if carts[i].UserEmail == cart.UserEmail {
			carts[i] = *cart
			return writeList(s, fileCarts, carts)
		}
	}
	carts = append(carts, *cart)
	return writeList(s, fileCarts, carts)
}

func (s *Store) DeleteCart(ctx context.Context, userEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	carts, err := readList[models.Cart](s, fileCarts)
	if err != nil {
		return err
	}
	kept := carts[:0]
	for _, c := range carts {
		if c.UserEmail == userEmail {
			continue
		}
		kept = append(kept, c)
	}
	return writeList(s, fileCarts, kept)
}

func (s *Store) ListCarts(ctx context.Context) ([]models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readList[models.Cart](s, fileCarts)
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders, err := readList[models.Order](s, fileOrders)
	if err != nil {
		return err
	}
	orders = append(orders, *order)
	return writeList(s, fileOrders, orders)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders, err := readList[models.Order](s, fileOrders)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetOrderByToken(ctx context.Context, token string) (*models.Order, error) {
	if token == "" {
		return nil, store.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders, err := readList[models.Order](s, fileOrders)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ClientToken == token {
			return &orders[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func sortOrdersNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}

func (s *Store) ListOrdersByUser(ctx context.Context, userEmail string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders, err := readList[models.Order](s, fileOrders)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.UserEmail == userEmail {
			matched = append(matched, o)
		}
	}
	sortOrdersNewestFirst(matched)
	return matched, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders, err := readList[models.Order](s, fileOrders)
	if err != nil {
		return nil, err
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders, err := readList[models.Order](s, fileOrders)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i].OrderStatus = order.OrderStatus
			orders[i].PaymentStatus = order.PaymentStatus
			orders[i].StatusHistory = order.StatusHistory
			orders[i].UpdatedAt = order.UpdatedAt
			return writeList(s, fileOrders, orders)
		}
	}
	return store.ErrNotFound
}

// Users and admins

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := readList[models.User](s, fileUsers)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	users = append(users, *user)
	return writeList(s, fileUsers, users)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users, err := readList[models.User](s, fileUsers)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readList[models.User](s, fileUsers)
}

func (s *Store) DeleteUser(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := readList[models.User](s, fileUsers)
	if err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.Email == email {
			continue
		}
		kept = append(kept, u)
	}
	return writeList(s, fileUsers, kept)
}

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	admins, err := readList[models.Admin](s, fileAdmins)
	if err != nil {
		return err
	}
	for i := range admins {
		if admins[i].Email == admin.Email {
			return store.ErrDuplicateEmail
		}
	}
	admins = append(admins, *admin)
	return writeList(s, fileAdmins, admins)
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admins, err := readList[models.Admin](s, fileAdmins)
	if err != nil {
		return nil, err
	}
	for i := range admins {
		if admins[i].Email == email {
			return &admins[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readList[models.Admin](s, fileAdmins)
}

// Outbox

func (s *Store) EnqueueOutbox(ctx context.Context, entry *models.OutboxEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := readList[models.OutboxEntry](s, fileOutbox)
	if err != nil {
		return err
	}
	for i := range entries {
		if entry.ClientToken != "" && entries[i].ClientToken == entry.ClientToken {
			return nil // already queued, retries stay idempotent
		}
	}
	entries = append(entries, *entry)
	return writeList(s, fileOutbox, entries)
}

func (s *Store) DueOutbox(ctx context.Context, now time.Time, limit int) ([]models.OutboxEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := readList[models.OutboxEntry](s, fileOutbox)
	if err != nil {
		return nil, err
	}
	due := make([]models.OutboxEntry, 0)
	for _, e := range entries {
		if e.Status == models.OutboxStatusPending && !e.NextAttempt.After(now) {
			due = append(due, e)
			if limit > 0 && len(due) >= limit {
				break
			}
		}
	}
	return due, nil
}

func (s *Store) MarkOutboxDone(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := readList[models.OutboxEntry](s, fileOutbox)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == id {
			entries[i].Status = models.OutboxStatusDone
			return writeList(s, fileOutbox, entries)
		}
	}
	return store.ErrNotFound
}

func (s *Store) RescheduleOutbox(ctx context.Context, entry *models.OutboxEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := readList[models.OutboxEntry](s, fileOutbox)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = *entry
			return writeList(s, fileOutbox, entries)
		}
	}
	return store.ErrNotFound
}
