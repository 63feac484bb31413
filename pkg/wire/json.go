package wire

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/morezero/authors-service/pkg/protocol"
)

// JSONFormat converts between parsed JSON objects and the protocol envelope.
// The transport is expected to have unmarshaled the text frame already, so
// Deserialize takes a map, not bytes.
type JSONFormat struct{}

// FormatName returns "json".
func (f *JSONFormat) FormatName() string { return FormatJSON }

// Deserialize converts a parsed JSON object into a Request.
func (f *JSONFormat) Deserialize(payload interface{}) (*protocol.Request, error) {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("wire: json strategy expects map[string]interface{}, got %T: %w", payload, ErrFormatMismatch)
	}

	pkgID, err := intField(obj, "pkg_id")
	if err != nil {
		return nil, &DecodeError{Format: FormatJSON, Err: err}
	}

	rawReqID, ok := obj["req_id"].(string)
	if !ok {
		return nil, &DecodeError{Format: FormatJSON, Err: fmt.Errorf("req_id missing or not a string")}
	}
	reqID, err := uuid.Parse(rawReqID)
	if err != nil {
		return nil, &DecodeError{Format: FormatJSON, Err: fmt.Errorf("req_id %q is not a UUID: %w", rawReqID, err)}
	}

	method, _ := obj["method"].(string)

	var data map[string]interface{}
	switch d := obj["data"].(type) {
	case nil:
		data = map[string]interface{}{}
	case map[string]interface{}:
		data = d
	default:
		return nil, &DecodeError{Format: FormatJSON, Err: fmt.Errorf("data is %T, want object", obj["data"])}
	}

	return protocol.NewRequest(protocol.PkgID(pkgID), reqID, method, data), nil
}

// Serialize converts a Response into a plain map mirroring its fields. The
// transport marshals the map to a JSON text frame.
func (f *JSONFormat) Serialize(resp *protocol.Response) (interface{}, error) {
	out := map[string]interface{}{
		"pkg_id":      int(resp.PkgID),
		"req_id":      resp.ReqID.String(),
		"status_code": int(resp.StatusCode),
		"data":        resp.Data,
	}
	if resp.Meta != nil {
		out["meta"] = map[string]interface{}{
			"page":     resp.Meta.Page,
			"per_page": resp.Meta.PerPage,
			"total":    resp.Meta.Total,
			"pages":    resp.Meta.Pages,
		}
	}
	return out, nil
}

// intField reads an integer field that may arrive as float64 (from
// encoding/json) or as a native int (from in-process construction).
func intField(obj map[string]interface{}, key string) (int, error) {
	switch v := obj[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s missing or not a number (got %T)", key, obj[key])
	}
}
