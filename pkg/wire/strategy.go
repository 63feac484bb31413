// Package wire converts between transport payloads (JSON maps or Protobuf
// bytes) and the canonical protocol envelope. The strategy for a connection
// is selected once, out of band, from the connection's format parameter.
package wire

import "github.com/morezero/authors-service/pkg/protocol"

// FormatName values understood by SelectStrategy.
const (
	FormatJSON     = "json"
	FormatProtobuf = "protobuf"
)

// FormatStrategy hides wire-format differences behind two conversions.
// Implementations hold no per-call state and are safe for concurrent use.
type FormatStrategy interface {
	// Deserialize converts a transport payload into a Request. The accepted
	// payload type depends on the format: JSON takes an already-parsed
	// map[string]interface{}, Protobuf takes raw []byte. A payload of the
	// wrong type fails with ErrFormatMismatch.
	Deserialize(payload interface{}) (*protocol.Request, error)

	// Serialize converts a Response into the transport payload for this
	// format: a plain map for JSON, encoded bytes for Protobuf.
	Serialize(resp *protocol.Response) (interface{}, error)

	// FormatName returns a lowercase identifier used for logging only.
	FormatName() string
}

// SelectStrategy picks the strategy for a connection's format parameter.
// Exactly "protobuf" selects the Protobuf strategy; every other value,
// including the empty string and any other casing, selects JSON. The
// case-sensitive match is long-standing observed behavior and is kept as is.
func SelectStrategy(format string) FormatStrategy {
	if format == FormatProtobuf {
		return &ProtobufFormat{}
	}
	return &JSONFormat{}
}
