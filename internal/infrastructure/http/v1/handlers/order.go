package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1/dto"
)

// OrderHandler handles HTTP requests for POS orders.
type OrderHandler struct {
	*BaseHandler
	service *order.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service *order.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput(h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	o, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, o)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	o, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// Void handles POST /orders/:id/void
func (h *OrderHandler) Void(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	o, err := h.service.Void(c.Request.Context(), orderID, h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}
