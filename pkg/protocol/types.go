// Package protocol defines the canonical request/response envelope exchanged
// over the WebSocket package-routing protocol, independent of wire format.
package protocol

import (
	"fmt"

	"github.com/google/uuid"
)

// PkgID identifies one logical operation routed over a connection,
// analogous to an RPC method name. Wire format uses the bare integer.
type PkgID int

// Registered package identifiers.
const (
	PkgGetAuthors   PkgID = 1
	PkgGetAuthor    PkgID = 2
	PkgCreateAuthor PkgID = 3
	PkgUpdateAuthor PkgID = 4
	PkgDeleteAuthor PkgID = 5
	PkgGetAuditLogs PkgID = 6
)

var pkgIDNames = map[PkgID]string{
	PkgGetAuthors:   "GetAuthors",
	PkgGetAuthor:    "GetAuthor",
	PkgCreateAuthor: "CreateAuthor",
	PkgUpdateAuthor: "UpdateAuthor",
	PkgDeleteAuthor: "DeleteAuthor",
	PkgGetAuditLogs: "GetAuditLogs",
}

// String returns diagnostic text like "PkgID.GetAuthors<1>".
func (p PkgID) String() string {
	name, ok := pkgIDNames[p]
	if !ok {
		name = "Unknown"
	}
	return fmt.Sprintf("PkgID.%s<%d>", name, int(p))
}

// RSPCode is the status code carried in every response.
type RSPCode int

// Response status codes. Uniform across wire formats.
const (
	CodeOK               RSPCode = 0
	CodeError            RSPCode = 1
	CodeInvalidData      RSPCode = 2
	CodePermissionDenied RSPCode = 3
	CodeNotFound         RSPCode = 4
)

var rspCodeNames = map[RSPCode]string{
	CodeOK:               "OK",
	CodeError:            "Error",
	CodeInvalidData:      "InvalidData",
	CodePermissionDenied: "PermissionDenied",
	CodeNotFound:         "NotFound",
}

// String returns diagnostic text like "RSPCode.OK<0>".
func (c RSPCode) String() string {
	name, ok := rspCodeNames[c]
	if !ok {
		name = "Unknown"
	}
	return fmt.Sprintf("RSPCode.%s<%d>", name, int(c))
}

// PaginationMeta carries paging information for list responses.
type PaginationMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// Request is the canonical inbound envelope. PkgID and ReqID are set when the
// frame is parsed and never reassigned; ReqID is supplied by the client and
// echoed back verbatim to correlate responses on a multiplexed connection.
type Request struct {
	PkgID  PkgID
	ReqID  uuid.UUID
	Method string
	Data   map[string]interface{}
}

// NewRequest builds a Request with a non-nil Data map.
func NewRequest(pkgID PkgID, reqID uuid.UUID, method string, data map[string]interface{}) *Request {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Request{PkgID: pkgID, ReqID: reqID, Method: method, Data: data}
}

// Response is the canonical outbound envelope. Data holds the payload for
// success responses; error constructors place a human-readable message under
// Data["msg"].
type Response struct {
	PkgID      PkgID
	ReqID      uuid.UUID
	StatusCode RSPCode
	Meta       *PaginationMeta
	Data       interface{}
}

// NewResponse builds a success response passing data through unchanged.
func NewResponse(pkgID PkgID, reqID uuid.UUID, data interface{}) *Response {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Response{PkgID: pkgID, ReqID: reqID, StatusCode: CodeOK, Data: data}
}

// NewListResponse builds a success response with pagination metadata.
func NewListResponse(pkgID PkgID, reqID uuid.UUID, data interface{}, meta *PaginationMeta) *Response {
	resp := NewResponse(pkgID, reqID, data)
	resp.Meta = meta
	return resp
}

// NewErrorResponse builds a failure response with the message under Data["msg"].
func NewErrorResponse(pkgID PkgID, reqID uuid.UUID, code RSPCode, msg string) *Response {
	return &Response{
		PkgID:      pkgID,
		ReqID:      reqID,
		StatusCode: code,
		Data:       map[string]interface{}{"msg": msg},
	}
}
