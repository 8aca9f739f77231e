package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopgrid/platform/internal/core/domain"
)

// Stream entry field names.
const (
	fieldEventID = "event_id"
	fieldPattern = "pattern"
	fieldPayload = "payload"
)

var ErrMalformedMessage = errors.New("queue: malformed message")

// encodeUserCreated builds the stream entry values for ev.
func encodeUserCreated(ev domain.UserCreated) (map[string]any, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode user created: %w", err)
	}
	return map[string]any{
		fieldEventID: ev.EventID,
		fieldPattern: domain.PatternUserCreate,
		fieldPayload: string(payload),
	}, nil
}

// decodeUserCreated parses stream entry values. Entries with an unknown
// pattern or unparseable payload wrap ErrMalformedMessage.
func decodeUserCreated(values map[string]any) (domain.UserCreated, error) {
	pattern, _ := values[fieldPattern].(string)
	if pattern != domain.PatternUserCreate {
		return domain.UserCreated{}, fmt.Errorf("%w: unexpected pattern %q", ErrMalformedMessage, pattern)
	}
	eventID, _ := values[fieldEventID].(string)
	if eventID == "" {
		return domain.UserCreated{}, fmt.Errorf("%w: missing event id", ErrMalformedMessage)
	}
	raw, _ := values[fieldPayload].(string)

	var ev domain.UserCreated
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return domain.UserCreated{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if ev.UserID == "" {
		return domain.UserCreated{}, fmt.Errorf("%w: missing user id", ErrMalformedMessage)
	}
	ev.EventID = eventID
	return ev, nil
}
