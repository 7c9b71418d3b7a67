package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shopping-cart/internal/catalog/domain"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type itemRow struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"not null;index"`
	Kind        string          `gorm:"type:varchar(16);not null;index"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock       int             `gorm:"not null"`
	Thumbnail   string
	Description string
	Details     datatypes.JSON
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (itemRow) TableName() string { return "items" }

type ItemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// Migrate creates or updates the items table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&itemRow{})
}

func (r *ItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	row, err := toRow(item)
	if err != nil {
		return domain.Item{}, err
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}
	return toDomain(row)
}

func (r *ItemRepo) Get(ctx context.Context, id string) (domain.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Item{}, apperr.NotFound("item %q not found", id)
	}

	var row itemRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Item{}, apperr.NotFound("item %q not found", id)
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("get item: %w", err)
	}
	return toDomain(row)
}

func (r *ItemRepo) List(ctx context.Context, filter app.ListFilter) ([]domain.Item, error) {
	q := r.db.WithContext(ctx).Model(&itemRow{})
	if filter.Kind != "" {
		q = q.Where("kind = ?", string(filter.Kind))
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+s+"%")
	}

	var rows []itemRow
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	out := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		item, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *ItemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&itemRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func toRow(item domain.Item) (itemRow, error) {
	var payload any
	switch item.Kind {
	case domain.KindProduct:
		if item.Product != nil {
			payload = item.Product
		}
	case domain.KindEvent:
		payload = item.Event
	}

	var details datatypes.JSON
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return itemRow{}, fmt.Errorf("encode item details: %w", err)
		}
		details = raw
	}

	return itemRow{
		ID:          item.ID,
		Name:        item.Name,
		Kind:        string(item.Kind),
		Price:       item.Price,
		Stock:       item.Stock,
		Thumbnail:   item.Thumbnail,
		Description: item.Description,
		Details:     details,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}, nil
}

func toDomain(row itemRow) (domain.Item, error) {
	item := domain.Item{
		ID:          row.ID,
		Name:        row.Name,
		Kind:        domain.Kind(row.Kind),
		Price:       row.Price,
		Stock:       row.Stock,
		Thumbnail:   row.Thumbnail,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if len(row.Details) == 0 {
		return item, nil
	}

	switch item.Kind {
	case domain.KindProduct:
		var p domain.ProductDetails
		if err := json.Unmarshal(row.Details, &p); err != nil {
			return domain.Item{}, fmt.Errorf("decode product %s: %w", row.ID, err)
		}
		item.Product = &p
	case domain.KindEvent:
		var e domain.EventDetails
		if err := json.Unmarshal(row.Details, &e); err != nil {
			return domain.Item{}, fmt.Errorf("decode event %s: %w", row.ID, err)
		}
		item.Event = &e
	}
	return item, nil
}
