package wire

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/morezero/authors-service/pkg/protocol"
)

// encodeRequestWithDataJSON builds request bytes with an arbitrary data_json
// payload, bypassing EncodeRequest's marshaling.
func encodeRequestWithDataJSON(pkgID protocol.PkgID, reqID uuid.UUID, dataJSON string) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldPkgID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(pkgID))
	b = protowire.AppendTag(b, fieldReqID, protowire.BytesType)
	b = protowire.AppendString(b, reqID.String())
	b = protowire.AppendTag(b, fieldDataJSON, protowire.BytesType)
	b = protowire.AppendString(b, dataJSON)
	return b
}

func TestProtobufFormat_RoundTrip(t *testing.T) {
	f := &ProtobufFormat{}
	reqID := uuid.New()
	original := protocol.NewRequest(protocol.PkgUpdateAuthor, reqID, "update",
		map[string]interface{}{"id": "a-1", "first_name": "Grace"})

	raw, err := EncodeRequest(original)
	if err != nil {
		t.Fatalf("wire:proto_test - EncodeRequest: %v", err)
	}

	got, err := f.Deserialize(raw)
	if err != nil {
		t.Fatalf("wire:proto_test - Deserialize: %v", err)
	}

	if got.PkgID != original.PkgID {
		t.Errorf("wire:proto_test - PkgID = %v, want %v", got.PkgID, original.PkgID)
	}
	if got.ReqID != original.ReqID {
		t.Errorf("wire:proto_test - ReqID = %v, want %v", got.ReqID, original.ReqID)
	}
	if got.Method != original.Method {
		t.Errorf("wire:proto_test - Method = %q, want %q", got.Method, original.Method)
	}
	if got.Data["id"] != "a-1" || got.Data["first_name"] != "Grace" {
		t.Errorf("wire:proto_test - Data = %v", got.Data)
	}
}

func TestProtobufFormat_Deserialize_MapIsFormatMismatch(t *testing.T) {
	f := &ProtobufFormat{}
	_, err := f.Deserialize(map[string]interface{}{"pkg_id": 1})
	if err == nil {
		t.Fatal("wire:proto_test - expected error for map payload")
	}
	if !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("wire:proto_test - error = %v, want ErrFormatMismatch", err)
	}
}

func TestProtobufFormat_Deserialize_MalformedBytes(t *testing.T) {
	f := &ProtobufFormat{}
	// A lone tag byte announcing a length-delimited field with no payload.
	_, err := f.Deserialize([]byte{0x12})
	if err == nil {
		t.Fatal("wire:proto_test - expected decode error for truncated bytes")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("wire:proto_test - error = %T, want *DecodeError", err)
	}
}

func TestProtobufFormat_Deserialize_BadInnerJSON(t *testing.T) {
	f := &ProtobufFormat{}
	raw := encodeRequestWithDataJSON(protocol.PkgGetAuthors, uuid.New(), "{not json")

	_, err := f.Deserialize(raw)
	if err == nil {
		t.Fatal("wire:proto_test - expected data conversion error")
	}
	if !errors.Is(err, ErrDataConversion) {
		t.Errorf("wire:proto_test - error = %v, want ErrDataConversion", err)
	}
}

func TestProtobufFormat_Serialize_WithMeta(t *testing.T) {
	f := &ProtobufFormat{}
	reqID := uuid.New()
	resp := protocol.NewListResponse(protocol.PkgGetAuditLogs, reqID,
		[]interface{}{map[string]interface{}{"action": "create"}},
		&protocol.PaginationMeta{Page: 3, PerPage: 25, Total: 120, Pages: 5})

	out, err := f.Serialize(resp)
	if err != nil {
		t.Fatalf("wire:proto_test - Serialize: %v", err)
	}
	raw, ok := out.([]byte)
	if !ok {
		t.Fatalf("wire:proto_test - Serialize returned %T, want []byte", out)
	}

	got, err := DecodeResponse(raw)
	if err != nil {
		t.Fatalf("wire:proto_test - DecodeResponse: %v", err)
	}
	if got.PkgID != protocol.PkgGetAuditLogs || got.ReqID != reqID {
		t.Errorf("wire:proto_test - envelope mismatch: %+v", got)
	}
	if got.StatusCode != protocol.CodeOK {
		t.Errorf("wire:proto_test - StatusCode = %v, want OK", got.StatusCode)
	}
	if got.Meta == nil {
		t.Fatal("wire:proto_test - Meta is nil")
	}
	if got.Meta.Page != 3 || got.Meta.PerPage != 25 || got.Meta.Total != 120 || got.Meta.Pages != 5 {
		t.Errorf("wire:proto_test - Meta = %+v", got.Meta)
	}
}

func TestProtobufFormat_Serialize_ErrorResponse(t *testing.T) {
	f := &ProtobufFormat{}
	reqID := uuid.New()
	resp := protocol.NewErrorResponse(protocol.PkgGetAuthor, reqID, protocol.CodeNotFound, "author not found")

	out, err := f.Serialize(resp)
	if err != nil {
		t.Fatalf("wire:proto_test - Serialize: %v", err)
	}

	got, err := DecodeResponse(out.([]byte))
	if err != nil {
		t.Fatalf("wire:proto_test - DecodeResponse: %v", err)
	}
	if got.StatusCode != protocol.CodeNotFound {
		t.Errorf("wire:proto_test - StatusCode = %v, want NotFound", got.StatusCode)
	}
	data, ok := got.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("wire:proto_test - Data is %T, want map", got.Data)
	}
	if data["msg"] != "author not found" {
		t.Errorf("wire:proto_test - Data[msg] = %v", data["msg"])
	}
	if got.Meta != nil {
		t.Errorf("wire:proto_test - Meta = %+v, want nil", got.Meta)
	}
}
