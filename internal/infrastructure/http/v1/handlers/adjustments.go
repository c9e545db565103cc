package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/product_return"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/wastage"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1/dto"
)

// WastageHandler handles HTTP requests for wastage write-offs.
type WastageHandler struct {
	*BaseHandler
	service *wastage.Service
}

// NewWastageHandler creates a new wastage handler.
func NewWastageHandler(base *BaseHandler, service *wastage.Service) *WastageHandler {
	return &WastageHandler{BaseHandler: base, service: service}
}

// List handles GET /wastage
func (h *WastageHandler) List(c *gin.Context) {
	var q dto.WastageListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	if err := q.PeriodQuery.Validate(); err != nil {
		h.Error(c, err)
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Record handles POST /wastage
func (h *WastageHandler) Record(c *gin.Context) {
	var req dto.RecordWastageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	itemID, err := id.ParseField("itemId", req.ItemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	m, err := h.service.Record(c.Request.Context(), itemID, req.Quantity, req.Reason, h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, m)
}

// Get handles GET /wastage/:id
func (h *WastageHandler) Get(c *gin.Context) {
	recordID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	rec, err := h.service.GetByID(c.Request.Context(), recordID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Reverse handles DELETE /wastage/:id
func (h *WastageHandler) Reverse(c *gin.Context) {
	recordID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	m, err := h.service.Reverse(c.Request.Context(), recordID, h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}

// ReturnHandler handles HTTP requests for product returns.
type ReturnHandler struct {
	*BaseHandler
	service *product_return.Service
}

// NewReturnHandler creates a new return handler.
func NewReturnHandler(base *BaseHandler, service *product_return.Service) *ReturnHandler {
	return &ReturnHandler{BaseHandler: base, service: service}
}

// List handles GET /returns
func (h *ReturnHandler) List(c *gin.Context) {
	var q dto.ReturnListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Record handles POST /returns
func (h *ReturnHandler) Record(c *gin.Context) {
	var req dto.RecordReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput(h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	m, err := h.service.Record(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, m)
}

// Get handles GET /returns/:id
func (h *ReturnHandler) Get(c *gin.Context) {
	returnID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	ret, err := h.service.GetByID(c.Request.Context(), returnID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, ret)
}

// Reverse handles DELETE /returns/:id
func (h *ReturnHandler) Reverse(c *gin.Context) {
	returnID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	m, err := h.service.Reverse(c.Request.Context(), returnID, h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}
