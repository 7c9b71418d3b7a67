// Package httpapi exposes the catalog over HTTP.
package httpapi

import (
	"strconv"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shopping-cart/internal/catalog/domain"
	"github.com/dwikikusuma/shopping-cart/internal/server/response"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/items", h.ListItems)
	rg.GET("/items/:id", h.GetItem)
	rg.GET("/items/:id/stock", h.CheckStock)
}

type itemResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Description string     `json:"description,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	Category    string     `json:"category,omitempty"`
	EventDate   *time.Time `json:"eventDate,omitempty"`
	Location    string     `json:"location,omitempty"`
	Artist      string     `json:"artist,omitempty"`
	Venue       string     `json:"venue,omitempty"`
}

type stockResponse struct {
	ItemID    string  `json:"itemId"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
	Available bool    `json:"available"`
	Total     float64 `json:"total"`
}

func toItemResponse(it domain.Item) itemResponse {
	out := itemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Type:        string(it.Kind),
		Price:       it.Price.Round(2).InexactFloat64(),
		Stock:       it.Stock,
		Thumbnail:   it.Thumbnail,
		Description: it.Description,
	}
	if p := it.Product; p != nil {
		out.Brand = p.Brand
		out.Category = p.Category
	}
	if e := it.Event; e != nil {
		date := e.Date
		out.EventDate = &date
		out.Location = e.Location
		out.Artist = e.Artist
		out.Venue = e.Venue
	}
	return out
}

// GET /items?type=&search=
func (h *Handler) ListItems(c *gin.Context) {
	var filter app.ListFilter
	if raw := c.Query("type"); raw != "" {
		kind, err := domain.ParseKind(raw)
		if err != nil {
			response.RespondError(c, err)
			return
		}
		filter.Kind = kind
	}
	filter.Search = c.Query("search")

	items, err := h.svc.ListItems(c.Request.Context(), filter)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	response.RespondOK(c, out)
}

// GET /items/:id
func (h *Handler) GetItem(c *gin.Context) {
	it, err := h.svc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, toItemResponse(it))
}

// GET /items/:id/stock?quantity=
func (h *Handler) CheckStock(c *gin.Context) {
	quantity := 1
	if raw := c.Query("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, apperr.Validation("quantity must be an integer"))
			return
		}
		quantity = n
	}

	check, err := h.svc.CheckStock(c.Request.Context(), c.Param("id"), quantity)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, stockResponse{
		ItemID:    check.ItemID,
		Quantity:  check.Quantity,
		Stock:     check.Stock,
		Available: check.Available,
		Total:     check.Total.Round(2).InexactFloat64(),
	})
}
