package domain

import "time"

// PatternUserCreate names the user-creation message on the queue.
const PatternUserCreate = "user.create"

// UserCreated is emitted by the auth service after a successful registration
// so the user service can materialize a profile.
type UserCreated struct {
	EventID      string    `json:"-"`
	UserID       string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Roles        []Role    `json:"roles"`
	OccurredAt   time.Time `json:"occurredAt"`
}
