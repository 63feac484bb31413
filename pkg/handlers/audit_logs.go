package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/morezero/authors-service/pkg/db"
	"github.com/morezero/authors-service/pkg/protocol"
)

// GetAuditLogs handles PkgGetAuditLogs: a paginated audit trail listing with
// optional actor/resource filters.
func (s *Service) GetAuditLogs(ctx context.Context, req *protocol.Request) *protocol.Response {
	page := intField(req.Data, "page", 1)
	perPage := intField(req.Data, "per_page", defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	logs, total, err := s.repo.ListAuditLogs(ctx, db.ListAuditLogsParams{
		Actor:    stringField(req.Data, "actor"),
		Resource: stringField(req.Data, "resource"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		slog.Error(fmt.Sprintf("%s - list audit logs: %v", logPrefix, err))
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeError, "Internal server error")
	}
	if logs == nil {
		logs = []db.AuditLog{}
	}

	return protocol.NewListResponse(req.PkgID, req.ReqID,
		map[string]interface{}{"audit_logs": logs},
		paginationMeta(page, perPage, total))
}
