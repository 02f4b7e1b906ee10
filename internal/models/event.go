package models

// Audit event types published to Kafka.
const (
	EventUserRegistered = "user.registered"
	EventUserActivated  = "user.activated"
	EventUserLogin      = "user.login"
)

// AuthEvent is an audit record of an authentication-related action.
type AuthEvent struct {
	EventID   string `json:"event_id"`  // Unique event identifier
	Type      string `json:"type"`      // One of the Event* constants
	Username  string `json:"username"`  // Affected user
	ClientID  string `json:"client_id"` // Affected user's client identifier
	Timestamp int64  `json:"timestamp"` // Unix timestamp of the action
}
