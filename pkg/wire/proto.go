package wire

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/morezero/authors-service/pkg/protocol"
)

// Protobuf field numbers for the request and response messages. The messages
// are small and fixed, so they are encoded and decoded directly with
// protowire instead of generated code.
//
//	Request:  pkg_id=1 (varint), req_id=2 (string), method=3 (string), data_json=4 (string)
//	Response: pkg_id=1 (varint), req_id=2 (string), status_code=3 (varint), data_json=4 (string), meta=5 (message)
//	Meta:     page=1, per_page=2, total=3, pages=4 (all varint)
const (
	fieldPkgID      = 1
	fieldReqID      = 2
	fieldMethod     = 3
	fieldStatusCode = 3
	fieldDataJSON   = 4
	fieldMeta       = 5

	metaFieldPage    = 1
	metaFieldPerPage = 2
	metaFieldTotal   = 3
	metaFieldPages   = 4
)

// ProtobufFormat converts between protowire-encoded binary frames and the
// protocol envelope. The payload data crosses the wire as an inner
// JSON-encoded string (data_json), decoded into a map here.
type ProtobufFormat struct{}

// FormatName returns "protobuf".
func (f *ProtobufFormat) FormatName() string { return FormatProtobuf }

// Deserialize parses protowire bytes into a Request.
func (f *ProtobufFormat) Deserialize(payload interface{}) (*protocol.Request, error) {
	raw, ok := payload.([]byte)
	if !ok {
		return nil, fmt.Errorf("wire: protobuf strategy expects []byte, got %T: %w", payload, ErrFormatMismatch)
	}

	var (
		pkgID    int
		rawReqID string
		method   string
		dataJSON string
	)

	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
		}
		b = b[n:]

		switch {
		case num == fieldPkgID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			pkgID = int(v)
			b = b[n:]
		case num == fieldReqID && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			rawReqID = v
			b = b[n:]
		case num == fieldMethod && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			method = v
			b = b[n:]
		case num == fieldDataJSON && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			dataJSON = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			b = b[n:]
		}
	}

	reqID, err := uuid.Parse(rawReqID)
	if err != nil {
		return nil, &DecodeError{Format: FormatProtobuf, Err: fmt.Errorf("req_id %q is not a UUID: %w", rawReqID, err)}
	}

	data := map[string]interface{}{}
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return nil, &DecodeError{Format: FormatProtobuf, Err: fmt.Errorf("data_json: %v: %w", err, ErrDataConversion)}
		}
	}

	return protocol.NewRequest(protocol.PkgID(pkgID), reqID, method, data), nil
}

// Serialize encodes a Response as protowire bytes.
func (f *ProtobufFormat) Serialize(resp *protocol.Response) (interface{}, error) {
	dataJSON, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("wire: encode response data: %v: %w", err, ErrDataConversion)
	}

	var b []byte
	b = protowire.AppendTag(b, fieldPkgID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(resp.PkgID))
	b = protowire.AppendTag(b, fieldReqID, protowire.BytesType)
	b = protowire.AppendString(b, resp.ReqID.String())
	b = protowire.AppendTag(b, fieldStatusCode, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(resp.StatusCode))
	b = protowire.AppendTag(b, fieldDataJSON, protowire.BytesType)
	b = protowire.AppendBytes(b, dataJSON)

	if resp.Meta != nil {
		var m []byte
		m = protowire.AppendTag(m, metaFieldPage, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(resp.Meta.Page))
		m = protowire.AppendTag(m, metaFieldPerPage, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(resp.Meta.PerPage))
		m = protowire.AppendTag(m, metaFieldTotal, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(resp.Meta.Total))
		m = protowire.AppendTag(m, metaFieldPages, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(resp.Meta.Pages))

		b = protowire.AppendTag(b, fieldMeta, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}

	return b, nil
}

// EncodeRequest encodes a Request as protowire bytes. Used by tests and by
// clients driving the binary protocol.
func EncodeRequest(req *protocol.Request) ([]byte, error) {
	dataJSON, err := json.Marshal(req.Data)
	if err != nil {
		return nil, fmt.Errorf("wire: encode request data: %v: %w", err, ErrDataConversion)
	}

	var b []byte
	b = protowire.AppendTag(b, fieldPkgID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(req.PkgID))
	b = protowire.AppendTag(b, fieldReqID, protowire.BytesType)
	b = protowire.AppendString(b, req.ReqID.String())
	b = protowire.AppendTag(b, fieldMethod, protowire.BytesType)
	b = protowire.AppendString(b, req.Method)
	b = protowire.AppendTag(b, fieldDataJSON, protowire.BytesType)
	b = protowire.AppendBytes(b, dataJSON)
	return b, nil
}

// DecodeResponse parses protowire response bytes. Used by tests and by
// clients driving the binary protocol.
func DecodeResponse(raw []byte) (*protocol.Response, error) {
	var (
		pkgID      int
		rawReqID   string
		statusCode int
		dataJSON   string
		meta       *protocol.PaginationMeta
	)

	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
		}
		b = b[n:]

		switch {
		case num == fieldPkgID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			pkgID = int(v)
			b = b[n:]
		case num == fieldReqID && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			rawReqID = v
			b = b[n:]
		case num == fieldStatusCode && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			statusCode = int(v)
			b = b[n:]
		case num == fieldDataJSON && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			dataJSON = v
			b = b[n:]
		case num == fieldMeta && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			m, err := decodeMeta(v)
			if err != nil {
				return nil, err
			}
			meta = m
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			b = b[n:]
		}
	}

	reqID, err := uuid.Parse(rawReqID)
	if err != nil {
		return nil, &DecodeError{Format: FormatProtobuf, Err: fmt.Errorf("req_id %q is not a UUID: %w", rawReqID, err)}
	}

	var data interface{} = map[string]interface{}{}
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return nil, &DecodeError{Format: FormatProtobuf, Err: fmt.Errorf("data_json: %v: %w", err, ErrDataConversion)}
		}
	}

	return &protocol.Response{
		PkgID:      protocol.PkgID(pkgID),
		ReqID:      reqID,
		StatusCode: protocol.RSPCode(statusCode),
		Meta:       meta,
		Data:       data,
	}, nil
}

func decodeMeta(raw []byte) (*protocol.PaginationMeta, error) {
	meta := &protocol.PaginationMeta{}
	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
		}
		b = b[n:]

		if typ != protowire.VarintType {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, &DecodeError{Format: FormatProtobuf, Err: protowire.ParseError(n)}
		}
		b = b[n:]

		switch num {
		case metaFieldPage:
			meta.Page = int(v)
		case metaFieldPerPage:
			meta.PerPage = int(v)
		case metaFieldTotal:
			meta.Total = int(v)
		case metaFieldPages:
			meta.Pages = int(v)
		}
	}
	return meta, nil
}
