package db

import "time"

// Author represents a row in the authors table.
type Author struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Created    time.Time `json:"created"`
	CreatedBy  string    `json:"created_by"`
	Modified   time.Time `json:"modified"`
	ModifiedBy string    `json:"modified_by"`
}

// AuditLog represents a row in the audit_logs table.
type AuditLog struct {
	ID       string    `json:"id"`
	Actor    string    `json:"actor"`
	Action   string    `json:"action"`
	Resource string    `json:"resource"`
	Detail   []byte    `json:"detail,omitempty"`
	Created  time.Time `json:"created"`
}
