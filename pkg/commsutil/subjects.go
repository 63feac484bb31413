package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	SubjectAuditEvent = "authors.audit"
)

// BuildAuditSubject builds a granular audit event subject, e.g.
// "authors.audit.author.create". Dots in resource names are flattened to
// underscores so they do not split subject tokens.
func BuildAuditSubject(resource, action string) string {
	safe := strings.ReplaceAll(resource, ".", "_")
	return fmt.Sprintf("%s.%s.%s", SubjectAuditEvent, safe, action)
}
