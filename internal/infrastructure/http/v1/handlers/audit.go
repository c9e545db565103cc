package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/inventory_audit"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1/dto"
)

// AuditHandler handles HTTP requests for physical stock-takes.
type AuditHandler struct {
	*BaseHandler
	service *inventory_audit.Service
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, service *inventory_audit.Service) *AuditHandler {
	return &AuditHandler{BaseHandler: base, service: service}
}

// List handles GET /audits
func (h *AuditHandler) List(c *gin.Context) {
	var q dto.AuditListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	res, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Start handles POST /audits
func (h *AuditHandler) Start(c *gin.Context) {
	var req dto.StartAuditRequest
	if !h.BindJSON(c, &req) {
		return
	}
	a, err := h.service.Start(c.Request.Context(), req.Date(), h.ActorID(c), req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, a)
}

// Get handles GET /audits/:id
func (h *AuditHandler) Get(c *gin.Context) {
	auditID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	a, err := h.service.GetByID(c.Request.Context(), auditID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// RecordCount handles PUT /audits/:id/lines/:lineId
func (h *AuditHandler) RecordCount(c *gin.Context) {
	auditID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParamID(c, "lineId")
	if !ok {
		return
	}
	var req dto.RecordCountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	line, err := h.service.RecordCount(c.Request.Context(), auditID, lineID, req.PhysicalQuantity, h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, line)
}

// Complete handles POST /audits/:id/complete
func (h *AuditHandler) Complete(c *gin.Context) {
	auditID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	report, err := h.service.Complete(c.Request.Context(), auditID, h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Cancel handles POST /audits/:id/cancel
func (h *AuditHandler) Cancel(c *gin.Context) {
	auditID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	a, err := h.service.Cancel(c.Request.Context(), auditID, h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}
