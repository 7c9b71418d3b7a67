package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type cartRow struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	SessionKey string `gorm:"uniqueIndex;not null"`
	Lines      datatypes.JSON
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (cartRow) TableName() string { return "carts" }

// CartRepo stores each cart as one row with its lines as a JSON document, so
// a save replaces the whole line set at once.
type CartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) *CartRepo {
	return &CartRepo{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&cartRow{})
}

func (r *CartRepo) FindBySessionKey(ctx context.Context, sessionKey string) (*domain.Cart, bool, error) {
	var row cartRow
	err := r.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find cart: %w", err)
	}

	cart, err := toDomain(row)
	if err != nil {
		return nil, false, err
	}
	return cart, true, nil
}

func (r *CartRepo) Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	row, err := toRow(cart)
	if err != nil {
		return nil, err
	}
	row.ID = uuid.NewString()

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict(err, "cart for session already exists")
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return toDomain(row)
}

func (r *CartRepo) Update(ctx context.Context, id string, cart *domain.Cart) (*domain.Cart, error) {
	row, err := toRow(cart)
	if err != nil {
		return nil, err
	}

	var out *domain.Cart
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&cartRow{}).Where("id = ?", id).Updates(map[string]any{
			"lines":      row.Lines,
			"updated_at": time.Now().UTC(),
		})
		if res.Error != nil {
			return fmt.Errorf("update cart: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("cart %q not found", id)
		}

		var saved cartRow
		if err := tx.Where("id = ?", id).First(&saved).Error; err != nil {
			return fmt.Errorf("reload cart: %w", err)
		}
		reloaded, err := toDomain(saved)
		if err != nil {
			return err
		}
		out = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CartRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&cartRow{})
	if res.Error != nil {
		return fmt.Errorf("delete cart: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("cart %q not found", id)
	}
	return nil
}

func toRow(cart *domain.Cart) (cartRow, error) {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return cartRow{}, fmt.Errorf("encode cart lines: %w", err)
	}
	return cartRow{
		ID:         cart.ID,
		SessionKey: cart.SessionKey,
		Lines:      raw,
		CreatedAt:  cart.CreatedAt,
		UpdatedAt:  cart.UpdatedAt,
	}, nil
}

func toDomain(row cartRow) (*domain.Cart, error) {
	lines := []domain.Line{}
	if len(row.Lines) > 0 {
		if err := json.Unmarshal(row.Lines, &lines); err != nil {
			return nil, fmt.Errorf("decode cart %s: %w", row.ID, err)
		}
	}
	return &domain.Cart{
		ID:         row.ID,
		SessionKey: row.SessionKey,
		Lines:      lines,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
