// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published when an account is created.  It carries
// enough information for downstream consumers to send a welcome mail or
// feed analytics without querying the primary database.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}
