package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tableside/internal/server/http/dto"
)

// OrderHandler exposes customer order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), dto.ToLineItems(req.Items), req.TableNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	view, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderStatus(*view))
}

// Acknowledge handles POST /api/orders/:id/ack.
func (h *OrderHandler) Acknowledge(c *gin.Context) {
	order, err := h.facade.AcknowledgeOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Stream handles GET /api/orders/:id/stream.
func (h *OrderHandler) Stream(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.facade.Order(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.facade.ServeStatusStream(c.Writer, c.Request, id)
}
