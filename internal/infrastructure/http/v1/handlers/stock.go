package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock register.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock register handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Adjust handles POST /items/:id/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	itemID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	res, err := h.service.Adjust(c.Request.Context(), req.ToInput(itemID, h.ActorID(c)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStockResult(res))
}

// Mutations handles GET /items/:id/mutations
func (h *StockHandler) Mutations(c *gin.Context) {
	itemID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var q dto.MutationListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	if err := q.PeriodQuery.Validate(); err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.service.History(c.Request.Context(), q.ToFilter(itemID))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Verify handles GET /items/:id/verify
func (h *StockHandler) Verify(c *gin.Context) {
	itemID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	v, err := h.service.Verify(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromVerification(*v))
}

// Rebuild handles POST /items/:id/rebuild
func (h *StockHandler) Rebuild(c *gin.Context) {
	itemID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	v, err := h.service.Rebuild(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromVerification(*v))
}

// Drift handles GET /stock/drift
func (h *StockHandler) Drift(c *gin.Context) {
	drift, err := h.service.VerifyAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	out := make([]dto.VerificationResponse, 0, len(drift))
	for _, v := range drift {
		out = append(out, dto.FromVerification(v))
	}
	h.OK(c, gin.H{"items": out})
}
