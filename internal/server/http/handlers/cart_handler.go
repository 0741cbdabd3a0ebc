package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tableside/internal/server/http/dto"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Create handles POST /api/carts.
func (h *CartHandler) Create(c *gin.Context) {
	cart, err := h.facade.CreateCart(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

// Get handles GET /api/carts/:id.
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Clear handles DELETE /api/carts/:id.
func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.facade.ClearCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /api/carts/:id/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.facade.AddCartItem(c.Request.Context(), c.Param("id"), req.ItemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItem handles PATCH /api/carts/:id/items/:itemId.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	cart, err := h.facade.UpdateCartItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/carts/:id/items/:itemId.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.facade.RemoveCartItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// SetTable handles PUT /api/carts/:id/table.
func (h *CartHandler) SetTable(c *gin.Context) {
	var req dto.TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	cart, err := h.facade.SetCartTable(c.Request.Context(), c.Param("id"), req.TableNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Payment handles GET /api/carts/:id/payment.
func (h *CartHandler) Payment(c *gin.Context) {
	payment, err := h.facade.Payment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Checkout handles POST /api/carts/:id/checkout.
func (h *CartHandler) Checkout(c *gin.Context) {
	order, err := h.facade.Checkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
