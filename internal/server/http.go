package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/morezero/authors-service/pkg/auth"
	"github.com/morezero/authors-service/pkg/protocol"
)

const httpLogPrefix = "server:http"

// restOp builds a protocol request from an HTTP request. The REST surface
// is a thin adapter over the same router pipeline the WebSocket uses, so
// permission checks and validation behave identically on both.
type restOp func(r *http.Request) (*protocol.Request, error)

func (s *Server) restHandler(build restOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := build(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"msg": "Invalid request"})
			slog.Debug(fmt.Sprintf("%s - bad request: %v", httpLogPrefix, err))
			return
		}

		user := userFromRequest(r)
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()
		ctx = auth.WithUser(ctx, user)

		resp := s.router.HandleRequest(ctx, user, req)

		body := map[string]interface{}{"data": resp.Data}
		if resp.Meta != nil {
			body["meta"] = resp.Meta
		}
		writeJSON(w, httpStatus(resp.StatusCode), body)
	}
}

// httpStatus maps protocol status codes onto HTTP.
func httpStatus(code protocol.RSPCode) int {
	switch code {
	case protocol.CodeOK:
		return http.StatusOK
	case protocol.CodeInvalidData:
		return http.StatusBadRequest
	case protocol.CodePermissionDenied:
		return http.StatusForbidden
	case protocol.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error(fmt.Sprintf("%s - response encode: %v", httpLogPrefix, err))
	}
}

func restListAuthors(r *http.Request) (*protocol.Request, error) {
	return protocol.NewRequest(protocol.PkgGetAuthors, uuid.New(), "", pagingData(r, nil)), nil
}

func restGetAuthor(r *http.Request) (*protocol.Request, error) {
	return protocol.NewRequest(protocol.PkgGetAuthor, uuid.New(), "",
		map[string]interface{}{"id": mux.Vars(r)["id"]}), nil
}

func restCreateAuthor(r *http.Request) (*protocol.Request, error) {
	data, err := decodeBody(r)
	if err != nil {
		return nil, err
	}
	return protocol.NewRequest(protocol.PkgCreateAuthor, uuid.New(), "", data), nil
}

func restUpdateAuthor(r *http.Request) (*protocol.Request, error) {
	data, err := decodeBody(r)
	if err != nil {
		return nil, err
	}
	data["id"] = mux.Vars(r)["id"]
	return protocol.NewRequest(protocol.PkgUpdateAuthor, uuid.New(), "", data), nil
}

func restDeleteAuthor(r *http.Request) (*protocol.Request, error) {
	return protocol.NewRequest(protocol.PkgDeleteAuthor, uuid.New(), "",
		map[string]interface{}{"id": mux.Vars(r)["id"]}), nil
}

func restListAuditLogs(r *http.Request) (*protocol.Request, error) {
	data := map[string]interface{}{}
	if actor := r.URL.Query().Get("actor"); actor != "" {
		data["actor"] = actor
	}
	if resource := r.URL.Query().Get("resource"); resource != "" {
		data["resource"] = resource
	}
	return protocol.NewRequest(protocol.PkgGetAuditLogs, uuid.New(), "", pagingData(r, data)), nil
}

// pagingData copies page/per_page query params into the request data when
// present, leaving defaults to the handlers.
func pagingData(r *http.Request, data map[string]interface{}) map[string]interface{} {
	if data == nil {
		data = map[string]interface{}{}
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		data["page"] = page
	}
	if perPage, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil {
		data["per_page"] = perPage
	}
	return data
}

func decodeBody(r *http.Request) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%s - body decode: %w", httpLogPrefix, err)
	}
	return data, nil
}

// healthStatus mirrors the health endpoint payload.
type healthStatus struct {
	Status    string          `json:"status"`
	Checks    map[string]bool `json:"checks"`
	Timestamp string          `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.HealthCheckTimeout)
	defer cancel()

	dbOK := s.pool != nil && s.pool.Ping(ctx) == nil
	h := healthStatus{
		Status:    "healthy",
		Checks:    map[string]bool{"database": dbOK},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if !dbOK {
		h.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, h)
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
