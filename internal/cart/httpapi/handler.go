// Package httpapi exposes the session cart over HTTP.
package httpapi

import (
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/cart/app"
	"github.com/dwikikusuma/shopping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shopping-cart/internal/server/middleware"
	"github.com/dwikikusuma/shopping-cart/internal/server/response"
	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Handler expects the Session middleware to run before it.
type Handler struct {
	svc *app.Service
	now func() time.Time
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/cart", h.GetCart)
	rg.GET("/cart/summary", h.GetSummary)
	rg.GET("/cart/availability", h.CheckAvailability)
	rg.POST("/cart/items", h.AddItem)
	rg.PATCH("/cart/items/:itemId", h.UpdateQuantity)
	rg.DELETE("/cart/items/:itemId", h.RemoveItem)
	rg.DELETE("/cart", h.ClearCart)
}

type addItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

type cartItemResponse struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
	Thumbnail string  `json:"thumbnail,omitempty"`
}

type cartResponse struct {
	ID            string             `json:"id"`
	SessionID     string             `json:"sessionId"`
	Items         []cartItemResponse `json:"items"`
	TotalQuantity int                `json:"totalQuantity"`
	TotalPrice    float64            `json:"totalPrice"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type summaryResponse struct {
	Items         []cartItemResponse `json:"items"`
	TotalQuantity int                `json:"totalQuantity"`
	TotalPrice    float64            `json:"totalPrice"`
}

type availabilityLineResponse struct {
	ItemID        string  `json:"itemId"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	Exists        bool    `json:"exists"`
	InStock       bool    `json:"inStock"`
	Stock         int     `json:"stock"`
	SnapshotPrice float64 `json:"snapshotPrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	PriceChanged  bool    `json:"priceChanged"`
}

type availabilityResponse struct {
	Items        []availabilityLineResponse `json:"items"`
	AllAvailable bool                       `json:"allAvailable"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toItems(lines []domain.SummaryLine) []cartItemResponse {
	out := make([]cartItemResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, cartItemResponse{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Type:      l.Kind,
			Quantity:  l.Quantity,
			UnitPrice: money(l.UnitPrice),
			Subtotal:  money(l.Subtotal),
			Thumbnail: l.Thumbnail,
		})
	}
	return out
}

// toCartResponse stamps an unsaved cart with the current time.
func (h *Handler) toCartResponse(c *domain.Cart) cartResponse {
	sum := c.Summary()
	out := cartResponse{
		ID:            c.ID,
		SessionID:     c.SessionKey,
		Items:         toItems(sum.Lines),
		TotalQuantity: sum.TotalQuantity,
		TotalPrice:    money(sum.TotalPrice),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if out.CreatedAt.IsZero() || out.UpdatedAt.IsZero() {
		now := h.now().UTC()
		out.CreatedAt, out.UpdatedAt = now, now
	}
	return out
}

// GET /cart
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context(), middleware.SessionKey(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, h.toCartResponse(cart))
}

// GET /cart/summary
func (h *Handler) GetSummary(c *gin.Context) {
	sum, err := h.svc.GetSummary(c.Request.Context(), middleware.SessionKey(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, summaryResponse{
		Items:         toItems(sum.Lines),
		TotalQuantity: sum.TotalQuantity,
		TotalPrice:    money(sum.TotalPrice),
	})
}

// GET /cart/availability
func (h *Handler) CheckAvailability(c *gin.Context) {
	av, err := h.svc.CheckAvailability(c.Request.Context(), middleware.SessionKey(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	lines := make([]availabilityLineResponse, 0, len(av.Lines))
	for _, l := range av.Lines {
		lines = append(lines, availabilityLineResponse{
			ItemID:        l.ItemID,
			Name:          l.Name,
			Quantity:      l.Quantity,
			Exists:        l.Exists,
			InStock:       l.InStock,
			Stock:         l.Stock,
			SnapshotPrice: money(l.SnapshotPrice),
			CurrentPrice:  money(l.CurrentPrice),
			PriceChanged:  l.PriceChanged,
		})
	}
	response.RespondOK(c, availabilityResponse{Items: lines, AllAvailable: av.AllAvailable})
}

// POST /cart/items
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	cart, err := h.svc.AddItem(c.Request.Context(), middleware.SessionKey(c), req.ItemID, req.Quantity)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, h.toCartResponse(cart))
}

// PATCH /cart/items/:itemId
func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	cart, err := h.svc.UpdateQuantity(c.Request.Context(), middleware.SessionKey(c), c.Param("itemId"), *req.Quantity)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, h.toCartResponse(cart))
}

// DELETE /cart/items/:itemId
func (h *Handler) RemoveItem(c *gin.Context) {
	cart, err := h.svc.RemoveItem(c.Request.Context(), middleware.SessionKey(c), c.Param("itemId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, h.toCartResponse(cart))
}

// DELETE /cart
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.svc.ClearCart(c.Request.Context(), middleware.SessionKey(c)); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
