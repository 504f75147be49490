package worker

import (
	"github.com/ajay-verma30/Neil-admin-sub000/internal/service"
)

// StartAuditWorker registers the audit sink's event handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
