package wire

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/morezero/authors-service/pkg/protocol"
)

func TestJSONFormat_Deserialize(t *testing.T) {
	f := &JSONFormat{}
	reqID := uuid.New()

	req, err := f.Deserialize(map[string]interface{}{
		"pkg_id": float64(1),
		"req_id": reqID.String(),
		"method": "list",
		"data":   map[string]interface{}{"page": float64(2)},
	})
	if err != nil {
		t.Fatalf("wire:json_test - Deserialize: %v", err)
	}

	if req.PkgID != protocol.PkgGetAuthors {
		t.Errorf("wire:json_test - PkgID = %v, want %v", req.PkgID, protocol.PkgGetAuthors)
	}
	if req.ReqID != reqID {
		t.Errorf("wire:json_test - ReqID = %v, want %v", req.ReqID, reqID)
	}
	if req.Method != "list" {
		t.Errorf("wire:json_test - Method = %q, want %q", req.Method, "list")
	}
	if req.Data["page"] != float64(2) {
		t.Errorf("wire:json_test - Data[page] = %v, want 2", req.Data["page"])
	}
}

func TestJSONFormat_Deserialize_MissingData(t *testing.T) {
	f := &JSONFormat{}
	req, err := f.Deserialize(map[string]interface{}{
		"pkg_id": float64(6),
		"req_id": uuid.New().String(),
	})
	if err != nil {
		t.Fatalf("wire:json_test - Deserialize: %v", err)
	}
	if req.Data == nil || len(req.Data) != 0 {
		t.Errorf("wire:json_test - Data = %v, want empty map", req.Data)
	}
}

func TestJSONFormat_Deserialize_BytesIsFormatMismatch(t *testing.T) {
	f := &JSONFormat{}
	_, err := f.Deserialize([]byte(`{"pkg_id":1}`))
	if err == nil {
		t.Fatal("wire:json_test - expected error for []byte payload")
	}
	if !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("wire:json_test - error = %v, want ErrFormatMismatch", err)
	}
	if !strings.Contains(err.Error(), "format mismatch") {
		t.Errorf("wire:json_test - message %q should contain %q", err.Error(), "format mismatch")
	}
}

func TestJSONFormat_Deserialize_BadFields(t *testing.T) {
	f := &JSONFormat{}
	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing pkg_id", map[string]interface{}{"req_id": uuid.New().String()}},
		{"pkg_id not a number", map[string]interface{}{"pkg_id": "1", "req_id": uuid.New().String()}},
		{"missing req_id", map[string]interface{}{"pkg_id": float64(1)}},
		{"req_id not a uuid", map[string]interface{}{"pkg_id": float64(1), "req_id": "nope"}},
		{"data not an object", map[string]interface{}{"pkg_id": float64(1), "req_id": uuid.New().String(), "data": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Deserialize(tt.payload)
			if err == nil {
				t.Fatal("wire:json_test - expected decode error")
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("wire:json_test - error = %T, want *DecodeError", err)
			}
		})
	}
}

func TestJSONFormat_Serialize(t *testing.T) {
	f := &JSONFormat{}
	reqID := uuid.New()
	resp := protocol.NewListResponse(protocol.PkgGetAuthors, reqID,
		[]interface{}{map[string]interface{}{"id": "a-1"}},
		&protocol.PaginationMeta{Page: 1, PerPage: 20, Total: 3, Pages: 1})

	out, err := f.Serialize(resp)
	if err != nil {
		t.Fatalf("wire:json_test - Serialize: %v", err)
	}
	obj, ok := out.(map[string]interface{})
	if !ok {
		t.Fatalf("wire:json_test - Serialize returned %T, want map", out)
	}

	if obj["pkg_id"] != int(protocol.PkgGetAuthors) {
		t.Errorf("wire:json_test - pkg_id = %v, want %d", obj["pkg_id"], protocol.PkgGetAuthors)
	}
	if obj["req_id"] != reqID.String() {
		t.Errorf("wire:json_test - req_id = %v, want %s", obj["req_id"], reqID)
	}
	if obj["status_code"] != 0 {
		t.Errorf("wire:json_test - status_code = %v, want 0", obj["status_code"])
	}
	meta, ok := obj["meta"].(map[string]interface{})
	if !ok {
		t.Fatalf("wire:json_test - meta is %T, want map", obj["meta"])
	}
	if meta["per_page"] != 20 || meta["pages"] != 1 {
		t.Errorf("wire:json_test - meta = %v, want per_page=20 pages=1", meta)
	}

	// The map must marshal cleanly for the transport.
	if _, err := json.Marshal(obj); err != nil {
		t.Errorf("wire:json_test - serialized map does not marshal: %v", err)
	}
}

func TestJSONFormat_Serialize_NoMeta(t *testing.T) {
	f := &JSONFormat{}
	out, err := f.Serialize(protocol.NewResponse(protocol.PkgGetAuthor, uuid.New(), map[string]interface{}{}))
	if err != nil {
		t.Fatalf("wire:json_test - Serialize: %v", err)
	}
	obj := out.(map[string]interface{})
	if _, present := obj["meta"]; present {
		t.Error("wire:json_test - meta should be omitted when nil")
	}
}

func TestJSONFormat_RoundTrip(t *testing.T) {
	// A request serialized through the wire as a JSON object and parsed back
	// must reconstruct an equivalent Request.
	f := &JSONFormat{}
	reqID := uuid.New()
	original := protocol.NewRequest(protocol.PkgCreateAuthor, reqID, "create",
		map[string]interface{}{"first_name": "Ada", "last_name": "Lovelace"})

	frame := map[string]interface{}{
		"pkg_id": int(original.PkgID),
		"req_id": original.ReqID.String(),
		"method": original.Method,
		"data":   original.Data,
	}
	raw, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("wire:json_test - marshal frame: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("wire:json_test - unmarshal frame: %v", err)
	}

	got, err := f.Deserialize(parsed)
	if err != nil {
		t.Fatalf("wire:json_test - Deserialize: %v", err)
	}
	if got.PkgID != original.PkgID || got.ReqID != original.ReqID || got.Method != original.Method {
		t.Errorf("wire:json_test - round trip mismatch: got %+v, want %+v", got, original)
	}
	if got.Data["first_name"] != "Ada" || got.Data["last_name"] != "Lovelace" {
		t.Errorf("wire:json_test - round trip data = %v", got.Data)
	}
}
