package event

import (
	"encoding/json"
	"fmt"

	"github.com/Iron-Ham/whacaconsole/internal/errors"
)

// Envelope is the wire form of an event: a type tag plus a raw payload whose
// shape is fully determined by the tag.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// StatePayload is the wire payload of a state-update envelope.
type StatePayload struct {
	State GameState `json:"state"`
	Cycle *int      `json:"cycle,omitempty"`
}

// ClickPayload is the wire payload of a target-click envelope.
type ClickPayload struct {
	IsValidTargetHit bool `json:"isValidTargetHit"`
	Cycle            *int `json:"cycle,omitempty"`
}

// Encode serializes a game event into an envelope.
func Encode(e Event) ([]byte, error) {
	var payload any
	switch ev := e.(type) {
	case StateUpdateEvent:
		if !ev.State.Valid() {
			return nil, errors.NewProtocolError(TypeStateUpdate, errors.ErrUnknownState).WithValue(string(ev.State))
		}
		payload = StatePayload{State: ev.State, Cycle: cyclePtr(ev.Cycle)}
	case TargetClickEvent:
		payload = ClickPayload{IsValidTargetHit: ev.IsValidTargetHit, Cycle: cyclePtr(ev.Cycle)}
	default:
		return nil, errors.NewProtocolError("", errors.ErrUnknownEventType).WithValue(e.EventType())
	}

	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", e.EventType(), err)
	}
	return json.Marshal(Envelope{Type: e.EventType(), Payload: pb})
}

// Decode parses an envelope and returns the typed event it carries.
// Unknown types and states are reported as *errors.ProtocolError.
func Decode(b []byte) (Event, error) {
	if len(b) == 0 {
		return nil, errors.NewProtocolError("", errors.ErrMalformedEnvelope)
	}
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, errors.NewProtocolError("", errors.Join(errors.ErrMalformedEnvelope, err))
	}

	switch env.Type {
	case TypeStateUpdate:
		p, err := decodePayload[StatePayload](env)
		if err != nil {
			return nil, err
		}
		if !p.State.Valid() {
			return nil, errors.NewProtocolError(env.Type, errors.ErrUnknownState).WithValue(string(p.State))
		}
		ev := NewStateUpdateEvent(p.State)
		ev.Cycle = cycleValue(p.Cycle)
		return ev, nil
	case TypeTargetClick:
		p, err := decodePayload[ClickPayload](env)
		if err != nil {
			return nil, err
		}
		return NewTargetClickEvent(p.IsValidTargetHit, cycleValue(p.Cycle)), nil
	default:
		return nil, errors.NewProtocolError("", errors.ErrUnknownEventType).WithValue(env.Type)
	}
}

func decodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Payload) == 0 {
		return out, errors.NewProtocolError(env.Type, errors.ErrMalformedEnvelope)
	}
	if err := json.Unmarshal(env.Payload, &out); err != nil {
		return out, errors.NewProtocolError(env.Type, errors.Join(errors.ErrMalformedEnvelope, err))
	}
	return out, nil
}

func cyclePtr(c int) *int {
	if c == NoCycle {
		return nil
	}
	return &c
}

func cycleValue(c *int) int {
	if c == nil || *c < 0 {
		return NoCycle
	}
	return *c
}
