package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/server/http/dto"
	"github.com/polkiloo/tableside/internal/server/stream"
)

// AdminHandler serves staff endpoints. Routes are expected behind an admin
// role check.
type AdminHandler struct {
	orders OrderFacade
	staff  StaffFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(orders OrderFacade, staff StaffFacade) *AdminHandler {
	return &AdminHandler{orders: orders, staff: staff}
}

// Orders handles GET /api/admin/orders?status=pending,preparing.
func (h *AdminHandler) Orders(c *gin.Context) {
	statuses, err := parseStatuses(c.QueryArray("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.orders.Orders(c.Request.Context(), statuses)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.OrderStatusResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.ToOrderStatus(v))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	status, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Advance handles POST /api/admin/orders/:id/advance.
func (h *AdminHandler) Advance(c *gin.Context) {
	order, err := h.orders.AdvanceOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	metrics, err := h.staff.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// KitchenLoad handles GET /api/admin/kitchen-load.
func (h *AdminHandler) KitchenLoad(c *gin.Context) {
	load, pinned := h.staff.KitchenLoad()
	c.JSON(http.StatusOK, dto.KitchenLoadResponse{Load: string(load), Pinned: pinned, Message: load.Message()})
}

// SetKitchenLoad handles PUT /api/admin/kitchen-load. Sending pinned=false
// hands the load back to the simulation.
func (h *AdminHandler) SetKitchenLoad(c *gin.Context) {
	var req dto.KitchenLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	pinned := req.Pinned == nil || *req.Pinned
	var load model.KitchenLoad
	if pinned {
		parsed, err := model.ParseKitchenLoad(req.Load)
		if err != nil {
			respondError(c, err)
			return
		}
		load = parsed
	}

	h.staff.SetKitchenLoad(load, pinned)
	load, pinned = h.staff.KitchenLoad()
	c.JSON(http.StatusOK, dto.KitchenLoadResponse{Load: string(load), Pinned: pinned, Message: load.Message()})
}

// Feedback handles GET /api/admin/feedback?limit=.
func (h *AdminHandler) Feedback(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c)
			return
		}
		limit = n
	}

	items, err := h.staff.Feedback(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Stream handles GET /api/admin/stream and forwards every status change.
func (h *AdminHandler) Stream(c *gin.Context) {
	h.orders.ServeStatusStream(c.Writer, c.Request, stream.AllOrders)
}

func parseStatuses(raw []string) ([]model.OrderStatus, error) {
	statuses := make([]model.OrderStatus, 0, len(raw))
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			status, err := model.ParseOrderStatus(part)
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, status)
		}
	}
	return statuses, nil
}
