package handlers

import (
	"fmt"

	"github.com/morezero/authors-service/pkg/protocol"
	"github.com/morezero/authors-service/pkg/router"
	"github.com/morezero/authors-service/pkg/validation"
)

// Roles required per package. A user must hold every role listed for a
// package to dispatch it.
const (
	RoleGetAuthors   = "get-authors"
	RoleGetAuthor    = "get-author"
	RoleCreateAuthor = "create-author"
	RoleUpdateAuthor = "update-author"
	RoleDeleteAuthor = "delete-author"
	RoleGetAuditLogs = "get-audit-logs"
)

// idSchema validates requests addressing a single author.
var idSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id": map[string]interface{}{"type": "string", "minLength": 1},
	},
	"required": []interface{}{"id"},
}

// pagingSchema validates list requests.
var pagingSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"page":     map[string]interface{}{"type": "integer", "minimum": 1},
		"per_page": map[string]interface{}{"type": "integer", "minimum": 1},
	},
}

// createAuthorSchema validates author creation payloads.
var createAuthorSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"first_name": map[string]interface{}{"type": "string", "minLength": 1},
		"last_name":  map[string]interface{}{"type": "string", "minLength": 1},
	},
	"required": []interface{}{"first_name", "last_name"},
}

// updateAuthorSchema validates partial updates: id plus any subset of fields.
var updateAuthorSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":         map[string]interface{}{"type": "string", "minLength": 1},
		"first_name": map[string]interface{}{"type": "string", "minLength": 1},
		"last_name":  map[string]interface{}{"type": "string", "minLength": 1},
	},
	"required": []interface{}{"id"},
}

// auditLogsSchema validates audit trail queries.
var auditLogsSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"actor":    map[string]interface{}{"type": "string"},
		"resource": map[string]interface{}{"type": "string"},
		"page":     map[string]interface{}{"type": "integer", "minimum": 1},
		"per_page": map[string]interface{}{"type": "integer", "minimum": 1},
	},
}

// RegisterAll wires every package handler into the router. Called once from
// server startup, before the first connection is accepted, so registration
// order is deterministic and the registry is read-only afterwards.
func (s *Service) RegisterAll(r *router.Router) error {
	regs := []struct {
		pkgID   protocol.PkgID
		handler router.HandlerFunc
		schema  map[string]interface{}
		roles   []string
	}{
		{protocol.PkgGetAuthors, s.GetAuthors, pagingSchema, []string{RoleGetAuthors}},
		{protocol.PkgGetAuthor, s.GetAuthor, idSchema, []string{RoleGetAuthor}},
		{protocol.PkgCreateAuthor, s.CreateAuthor, createAuthorSchema, []string{RoleCreateAuthor}},
		{protocol.PkgUpdateAuthor, s.UpdateAuthor, updateAuthorSchema, []string{RoleUpdateAuthor}},
		{protocol.PkgDeleteAuthor, s.DeleteAuthor, idSchema, []string{RoleDeleteAuthor}},
		{protocol.PkgGetAuditLogs, s.GetAuditLogs, auditLogsSchema, []string{RoleGetAuditLogs}},
	}

	for _, reg := range regs {
		err := r.Register(reg.pkgID, reg.handler,
			router.WithSchema(reg.schema),
			router.WithValidator(validation.Validate),
			router.WithRoles(reg.roles...),
		)
		if err != nil {
			return fmt.Errorf("%s - register %s: %w", logPrefix, reg.pkgID, err)
		}
	}
	return nil
}
