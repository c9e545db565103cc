package dto

import (
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/inventory_audit"
)

type StartAuditRequest struct {
	AuditDate *time.Time `json:"auditDate"`
	Notes     string     `json:"notes" binding:"max=1000"`
}

// Date defaults to now.
func (r *StartAuditRequest) Date() time.Time {
	if r.AuditDate == nil {
		return time.Now().UTC()
	}
	return *r.AuditDate
}

type RecordCountRequest struct {
	PhysicalQuantity types.Quantity `json:"physicalQuantity"`
}

type AuditListQuery struct {
	PageQuery
	Status string `form:"status" binding:"omitempty,oneof=in_progress completed cancelled"`
}

func (q *AuditListQuery) ToFilter() inventory_audit.ListFilter {
	return inventory_audit.ListFilter{Status: inventory_audit.Status(q.Status), Page: q.Page()}
}
