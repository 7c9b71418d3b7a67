package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/shopping-cart/internal/cart/app"
	catalogapp "github.com/dwikikusuma/shopping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
)

// CatalogServiceReader lets the cart read items through the in-process
// catalog service.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) FindByID(ctx context.Context, id string) (cartapp.Item, bool, error) {
	it, err := r.svc.GetItem(ctx, id)
	if apperr.IsNotFound(err) || apperr.IsValidation(err) {
		return cartapp.Item{}, false, nil
	}
	if err != nil {
		return cartapp.Item{}, false, err
	}

	return cartapp.Item{
		ID:        it.ID,
		Name:      it.Name,
		Kind:      string(it.Kind),
		Price:     it.Price,
		Stock:     it.Stock,
		Thumbnail: it.Thumbnail,
	}, true, nil
}
