package domain

import "time"

// AuthEventType enumerates audited authentication events.
type AuthEventType string

const (
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventLogout         AuthEventType = "logout"
)

// AuthEvent is one entry in the authentication audit trail.
type AuthEvent struct {
	Type       AuthEventType
	UserID     string // empty for failed logins against unknown emails
	Email      string
	ClientKind ClientKind
	Timestamp  time.Time
}
