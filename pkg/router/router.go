// Package router dispatches protocol requests to registered package handlers.
// The registry is populated once at startup and read-only afterwards, so
// dispatch needs no locking.
package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/morezero/authors-service/pkg/auth"
	"github.com/morezero/authors-service/pkg/protocol"
	"github.com/morezero/authors-service/pkg/validation"
)

const logPrefix = "router:dispatch"

// HandlerFunc handles one request. Expected failures (storage errors and the
// like) are converted to error responses inside the handler; the router only
// guards against a handler returning nil.
type HandlerFunc func(ctx context.Context, req *protocol.Request) *protocol.Response

// entry is one registered package: handler, optional schema + validator,
// and the roles a user must all hold to dispatch it.
type entry struct {
	handler   HandlerFunc
	schema    map[string]interface{}
	validator validation.ValidatorFunc
	roles     []string
}

// Router is the dispatch table for the WebSocket package protocol. Construct
// one at process start, register every handler from a single startup
// function, then treat it as read-only.
type Router struct {
	entries map[protocol.PkgID]entry
}

// New creates an empty Router.
func New() *Router {
	return &Router{entries: make(map[protocol.PkgID]entry)}
}

// RegisterOption configures a registration.
type RegisterOption func(*entry)

// WithSchema attaches a JSON schema to the registration. Validation only
// runs when a validator is attached as well.
func WithSchema(schema map[string]interface{}) RegisterOption {
	return func(e *entry) { e.schema = schema }
}

// WithValidator attaches the validator callback invoked with the request and
// the registered schema.
func WithValidator(v validation.ValidatorFunc) RegisterOption {
	return func(e *entry) { e.validator = v }
}

// WithRoles sets the roles a user must all hold. No roles means public.
func WithRoles(roles ...string) RegisterOption {
	return func(e *entry) { e.roles = roles }
}

// Register stores a handler under pkgID. Registering the same pkgID twice is
// a startup error, guarding against accidental duplicate wiring.
func (r *Router) Register(pkgID protocol.PkgID, handler HandlerFunc, opts ...RegisterOption) error {
	if handler == nil {
		return fmt.Errorf("%s - nil handler for %s", logPrefix, pkgID)
	}
	if _, exists := r.entries[pkgID]; exists {
		return fmt.Errorf("%s - handler already registered for %s", logPrefix, pkgID)
	}

	e := entry{handler: handler}
	for _, opt := range opts {
		opt(&e)
	}
	r.entries[pkgID] = e
	return nil
}

// HandleRequest runs the dispatch pipeline for one request: lookup,
// permission check, schema validation, handler invocation. Every failure
// mode is returned as a response value, never an exception; each request
// yields exactly one response echoing its ReqID.
func (r *Router) HandleRequest(ctx context.Context, user *auth.User, req *protocol.Request) *protocol.Response {
	slog.Debug(fmt.Sprintf("%s - pkg_id=%s req_id=%s", logPrefix, req.PkgID, req.ReqID))

	e, ok := r.entries[req.PkgID]
	if !ok {
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeError,
			fmt.Sprintf("No handler found for pkg_id %d", int(req.PkgID)))
	}

	if !auth.HasPermission(user, e.roles) {
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodePermissionDenied, "No permission")
	}

	if e.schema != nil && e.validator != nil {
		if resp := e.validator(req, e.schema); resp != nil {
			return resp
		}
	}

	resp := e.handler(ctx, req)
	if resp == nil {
		slog.Error(fmt.Sprintf("%s - handler for %s returned nil response", logPrefix, req.PkgID))
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeError, "Internal error")
	}
	return resp
}
