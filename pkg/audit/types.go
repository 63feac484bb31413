// Package audit defines audit event types and publisher interfaces for
// author mutations.
package audit

// Event is emitted when a user mutates a resource through the API.
type Event struct {
	Actor      string                 `json:"actor"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID string                 `json:"resourceId,omitempty"`
	Detail     map[string]interface{} `json:"detail,omitempty"`
	Timestamp  string                 `json:"timestamp"`
}
