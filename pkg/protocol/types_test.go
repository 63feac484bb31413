package protocol

import (
	"testing"

	"github.com/google/uuid"
)

func TestPkgID_String(t *testing.T) {
	tests := []struct {
		id   PkgID
		want string
	}{
		{PkgGetAuthors, "PkgID.GetAuthors<1>"},
		{PkgDeleteAuthor, "PkgID.DeleteAuthor<5>"},
		{PkgID(99), "PkgID.Unknown<99>"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("protocol:types_test - PkgID(%d).String() = %q, want %q", int(tt.id), got, tt.want)
		}
	}
}

func TestRSPCode_String(t *testing.T) {
	tests := []struct {
		code RSPCode
		want string
	}{
		{CodeOK, "RSPCode.OK<0>"},
		{CodePermissionDenied, "RSPCode.PermissionDenied<3>"},
		{RSPCode(42), "RSPCode.Unknown<42>"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("protocol:types_test - RSPCode(%d).String() = %q, want %q", int(tt.code), got, tt.want)
		}
	}
}

func TestNewRequest_NilData(t *testing.T) {
	req := NewRequest(PkgGetAuthors, uuid.New(), "", nil)
	if req.Data == nil {
		t.Error("protocol:types_test - NewRequest with nil data should allocate an empty map")
	}
}

func TestNewResponse_Defaults(t *testing.T) {
	reqID := uuid.New()
	resp := NewResponse(PkgGetAuthor, reqID, map[string]interface{}{"id": "a-1"})

	if resp.StatusCode != CodeOK {
		t.Errorf("protocol:types_test - StatusCode = %v, want %v", resp.StatusCode, CodeOK)
	}
	if resp.PkgID != PkgGetAuthor {
		t.Errorf("protocol:types_test - PkgID = %v, want %v", resp.PkgID, PkgGetAuthor)
	}
	if resp.ReqID != reqID {
		t.Errorf("protocol:types_test - ReqID = %v, want %v", resp.ReqID, reqID)
	}
	if resp.Meta != nil {
		t.Errorf("protocol:types_test - Meta = %v, want nil", resp.Meta)
	}
}

func TestNewErrorResponse_MsgInData(t *testing.T) {
	reqID := uuid.New()
	resp := NewErrorResponse(PkgCreateAuthor, reqID, CodePermissionDenied, "No permission")

	if resp.StatusCode != CodePermissionDenied {
		t.Errorf("protocol:types_test - StatusCode = %v, want %v", resp.StatusCode, CodePermissionDenied)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("protocol:types_test - Data is %T, want map", resp.Data)
	}
	if data["msg"] != "No permission" {
		t.Errorf("protocol:types_test - Data[msg] = %v, want %q", data["msg"], "No permission")
	}
	if resp.ReqID != reqID {
		t.Errorf("protocol:types_test - ReqID = %v, want %v", resp.ReqID, reqID)
	}
}

func TestNewListResponse_Meta(t *testing.T) {
	meta := &PaginationMeta{Page: 2, PerPage: 10, Total: 35, Pages: 4}
	resp := NewListResponse(PkgGetAuthors, uuid.New(), []interface{}{}, meta)

	if resp.Meta == nil {
		t.Fatal("protocol:types_test - Meta is nil")
	}
	if resp.Meta.Pages != 4 || resp.Meta.Total != 35 {
		t.Errorf("protocol:types_test - Meta = %+v, want pages=4 total=35", resp.Meta)
	}
}
