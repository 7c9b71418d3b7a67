// Package seed loads catalog fixtures from YAML and writes them into an
// empty catalog.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/dwikikusuma/shopping-cart/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed items.yaml
var defaultItems []byte

type file struct {
	Items []entry `yaml:"items"`
}

type entry struct {
	Name        string                 `yaml:"name"`
	Type        string                 `yaml:"type"`
	Price       string                 `yaml:"price"`
	Stock       int                    `yaml:"stock"`
	Thumbnail   string                 `yaml:"thumbnail"`
	Description string                 `yaml:"description"`
	Product     *domain.ProductDetails `yaml:"product"`
	Event       *domain.EventDetails   `yaml:"event"`
}

// Catalog is the slice of the catalog service the seeder needs.
type Catalog interface {
	IsEmpty(ctx context.Context) (bool, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
}

// Load reads items from path, or the embedded fixtures when path is empty.
func Load(path string) ([]domain.Item, error) {
	raw := defaultItems
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]domain.Item, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	items := make([]domain.Item, 0, len(f.Items))
	for i, e := range f.Items {
		kind, err := domain.ParseKind(e.Type)
		if err != nil {
			return nil, fmt.Errorf("seed item %d: %w", i, err)
		}
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("seed item %d: price %q: %w", i, e.Price, err)
		}
		items = append(items, domain.Item{
			Name:        e.Name,
			Kind:        kind,
			Price:       price,
			Stock:       e.Stock,
			Thumbnail:   e.Thumbnail,
			Description: e.Description,
			Product:     e.Product,
			Event:       e.Event,
		})
	}
	return items, nil
}

// Run creates items when the catalog is empty and reports how many were
// written. A non-empty catalog is left untouched.
func Run(ctx context.Context, catalog Catalog, items []domain.Item, log *zap.Logger) (int, error) {
	empty, err := catalog.IsEmpty(ctx)
	if err != nil {
		return 0, err
	}
	if !empty {
		log.Info("catalog already seeded, skipping")
		return 0, nil
	}

	created := 0
	for _, item := range items {
		saved, err := catalog.CreateItem(ctx, item)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", item.Name, err)
		}
		created++
		log.Info("seeded item",
			zap.String("item_id", saved.ID),
			zap.String("name", saved.Name),
			zap.String("type", string(saved.Kind)),
		)
	}
	return created, nil
}
