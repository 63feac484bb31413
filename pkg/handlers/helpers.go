package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/morezero/authors-service/pkg/protocol"
)

const logPrefix = "handlers:service"

func marshalDetail(detail map[string]interface{}) ([]byte, error) {
	return json.Marshal(detail)
}

func logAuditFailure(stage, action string, err error) {
	slog.Error(fmt.Sprintf("%s - audit %s for %s failed: %v", logPrefix, stage, action, err))
}

// stringField reads an optional string from request data; empty when absent.
func stringField(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}

// optionalStringField returns nil when the key is absent, so partial updates
// can distinguish "not provided" from an explicit value.
func optionalStringField(data map[string]interface{}, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

// intField reads an integer that may arrive as float64 from JSON decoding.
// Returns fallback when absent or not numeric.
func intField(data map[string]interface{}, key string, fallback int) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// paginationMeta computes list metadata from a page request and total count.
func paginationMeta(page, perPage, total int) *protocol.PaginationMeta {
	pages := 0
	if total > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return &protocol.PaginationMeta{Page: page, PerPage: perPage, Total: total, Pages: pages}
}
