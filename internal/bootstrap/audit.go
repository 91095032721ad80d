package bootstrap

import "context"

// AuditLog is one append-only operational audit entry. Credential records
// themselves are never deleted, so the audit trail here covers process-level
// events (startup, shutdown, lifecycle notifications).
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
