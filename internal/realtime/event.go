// Package realtime implements the live synchronization layer: the
// channel registry, the authenticated websocket channels and the task
// event broadcaster. All state is in-process; there is no cross-node
// coordination and no event durability.
package realtime

import (
	"encoding/json"

	"github.com/google/uuid"

	"taskflow/internal/domain/entity"
	"taskflow/internal/errors"
)

// Kind identifies one of the four task lifecycle events.
type Kind string

// Wire names of the event kinds.
const (
	KindTaskCreated  Kind = "task:created"
	KindTaskUpdated  Kind = "task:updated"
	KindTaskDeleted  Kind = "task:deleted"
	KindTaskAssigned Kind = "task:assigned"
)

// Event is the closed set of domain events pushed over channels. The
// unexported marker keeps the set sealed so the broadcaster and the
// client reconciler can switch over every variant.
type Event interface {
	Kind() Kind
	isEvent()
}

// TaskCreated announces a newly created task; broadcast to all channels.
type TaskCreated struct {
	Task *entity.Task `json:"task"`
}

// TaskUpdated announces a committed task update; broadcast to all channels.
type TaskUpdated struct {
	Task *entity.Task `json:"task"`
}

// TaskDeleted announces a removal; carries only the task id.
type TaskDeleted struct {
	TaskID uuid.UUID `json:"taskId"`
}

// TaskAssigned is the targeted assignment notification, delivered only
// to the new assignee's room.
type TaskAssigned struct {
	Message string       `json:"message"`
	Task    *entity.Task `json:"task"`
}

func (TaskCreated) Kind() Kind  { return KindTaskCreated }
func (TaskUpdated) Kind() Kind  { return KindTaskUpdated }
func (TaskDeleted) Kind() Kind  { return KindTaskDeleted }
func (TaskAssigned) Kind() Kind { return KindTaskAssigned }

func (TaskCreated) isEvent()  {}
func (TaskUpdated) isEvent()  {}
func (TaskDeleted) isEvent()  {}
func (TaskAssigned) isEvent() {}

// envelope is the wire form of an event.
type envelope struct {
	Event Kind            `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EncodeEvent serializes an event into its wire envelope.
func EncodeEvent(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event payload")
	}

	frame, err := json.Marshal(envelope{Event: ev.Kind(), Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event envelope")
	}

	return frame, nil
}

// DecodeEvent parses a wire envelope back into its typed variant.
func DecodeEvent(frame []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal event envelope")
	}

	var ev Event
	switch env.Event {
	case KindTaskCreated:
		ev = &TaskCreated{}
	case KindTaskUpdated:
		ev = &TaskUpdated{}
	case KindTaskDeleted:
		ev = &TaskDeleted{}
	case KindTaskAssigned:
		ev = &TaskAssigned{}
	default:
		return nil, errors.Errorf("unknown event kind: %q", env.Event)
	}

	if err := json.Unmarshal(env.Data, ev); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s payload", env.Event)
	}

	return ev, nil
}
