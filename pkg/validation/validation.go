// Package validation applies JSON-Schema validation to request payloads
// before a handler runs.
package validation

import (
	"fmt"
	"log/slog"

	"github.com/xeipuuv/gojsonschema"

	"github.com/morezero/authors-service/pkg/protocol"
)

const logPrefix = "validation:validate"

// ValidatorFunc checks a request against a schema. A non-nil response is the
// validation failure to return to the client; nil means the request passed.
type ValidatorFunc func(req *protocol.Request, schema map[string]interface{}) *protocol.Response

// Validate checks req.Data against a JSON schema. Schema violations are
// logged server-side only; the client receives a generic InvalidData
// response so internal schema structure is not leaked.
func Validate(req *protocol.Request, schema map[string]interface{}) *protocol.Response {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(req.Data),
	)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - schema validation failed for %s: %v", logPrefix, req.PkgID, err))
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeInvalidData, "Invalid data")
	}

	if !result.Valid() {
		for _, violation := range result.Errors() {
			slog.Debug(fmt.Sprintf("%s - %s: %s", logPrefix, req.PkgID, violation))
		}
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeInvalidData, "Invalid data")
	}

	return nil
}
