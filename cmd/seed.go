package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/craftloom/storefront/pkg/global"
	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

// demoProducts are the starter listings every fresh deployment gets.
// They belong to the "system" owner and arrive pre-approved.
var demoProducts = []struct {
	name     string
	price    string
	material string
	rating   float64
	stock    int
}{
	{"Handwoven Basket", "₹499", "Natural Jute", 4.5, 10},
	{"Clay Pot", "₹299", "clay", 4.2, 12},
	{"Jewelry Box", "₹799", "Wooden", 4.8, 8},
	{"Bamboo Lamp", "₹1299", "Bamboo", 4.6, 5},
	{"Coffee Cup", "₹199", "ceramic", 4.1, 20},
}

// seed creates the default admin account and the demo catalog. It is
// idempotent: existing records are left untouched.
func seed(repo store.Repository, logger *zap.Logger) error {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	adminEmail := global.GetEnvOrDefault("ADMIN_EMAIL", "admin@craftloom.local")
	adminPassword := global.GetEnvOrDefault("ADMIN_PASSWORD", "admin123")

	if _, err := repo.GetAdminByEmail(ctx, adminEmail); errors.Is(err, store.ErrNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := models.NewAdmin("admin", adminEmail, string(hash))
		if err := repo.CreateAdmin(ctx, admin); err != nil && !errors.Is(err, store.ErrDuplicateEmail) {
			return fmt.Errorf("create default admin: %w", err)
		}
		logger.Info("seeded default admin", zap.String("email", adminEmail))
	} else if err != nil {
		return fmt.Errorf("check default admin: %w", err)
	}

	existing, err := repo.ListProducts(ctx, models.ProductFilter{Owner: "system"})
	if err != nil {
		return fmt.Errorf("list seed products: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.Name] = true
	}

	seeded := 0
	for _, dp := range demoProducts {
		if have[dp.name] {
			continue
		}
		req := models.CreateProductRequest{
			Name:     dp.name,
			Price:    dp.price,
			Material: dp.material,
			Rating:   dp.rating,
			Image:    "/images/" + slug(dp.name) + ".jpg",
			Owner:    "system",
			Stock:    dp.stock,
		}
		product, err := req.ToProduct()
		if err != nil {
			return fmt.Errorf("build seed product %q: %w", dp.name, err)
		}
		product.Status = models.ProductStatusApproved
		if err := repo.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("seed product %q: %w", dp.name, err)
		}
		seeded++
	}
	if seeded > 0 {
		logger.Info("seeded demo products", zap.Int("count", seeded))
	}
	return nil
}

func slug(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ':
			out = append(out, '-')
		}
	}
	return string(out)
}
