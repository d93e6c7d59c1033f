package domain

import "time"

// AuditKind classifies an AuditEvent.
type AuditKind string

const (
	AuditRegistered    AuditKind = "registered"
	AuditLoginSuccess  AuditKind = "login_success"
	AuditLoginFailure  AuditKind = "login_failure"
	AuditTokenRejected AuditKind = "token_rejected"
	AuditAccessDenied  AuditKind = "access_denied"
)

// AuditEvent records an authentication or authorization outcome.
type AuditEvent struct {
	Kind       AuditKind `json:"kind"`
	SubjectID  string    `json:"subject_id,omitempty"`
	Username   string    `json:"username,omitempty"`
	Operation  Operation `json:"operation,omitempty"`
	Reason     Reason    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
