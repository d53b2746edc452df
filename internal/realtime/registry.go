package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Channel is a live, authenticated connection to one client. A user may
// hold several channels at once (one per tab); each belongs to exactly
// one user for its whole lifetime.
type Channel interface {
	// ID is an opaque identifier, unique per physical connection.
	ID() string

	// UserID is the authenticated owner, set once at admission.
	UserID() uuid.UUID

	// Deliver enqueues an event for the client. It must not block; a
	// saturated or closed channel returns an error instead.
	Deliver(ev Event) error
}

// UserRoom derives the broadcast group key for a user.
func UserRoom(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// Registry tracks live channels and groups each user's channels into a
// per-user room. It is the only server-side mutable structure shared
// across connections; one mutex guards all membership state.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]Channel            // channel id -> channel
	rooms    map[string]map[string]Channel // room key -> channel id -> channel
	logger   *slog.Logger
}

// NewRegistry constructs an empty registry. The composition root owns
// the single instance; tests construct their own.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		channels: make(map[string]Channel),
		rooms:    make(map[string]map[string]Channel),
		logger:   logger,
	}
}

// Admit registers a channel and joins it to its owner's room. Admitting
// the same channel twice is a no-op, so reconnect races cannot
// double-register a connection.
func (r *Registry) Admit(ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[ch.ID()]; ok {
		return
	}
	r.channels[ch.ID()] = ch

	room := UserRoom(ch.UserID())
	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]Channel)
	}
	r.rooms[room][ch.ID()] = ch

	r.logger.Debug("channel admitted",
		slog.String("channelID", ch.ID()),
		slog.String("userID", ch.UserID().String()),
		slog.Int("totalChannels", len(r.channels)))
}

// Remove deregisters a channel and drops all its room memberships.
// Removing an unknown or already-removed channel is a no-op.
func (r *Registry) Remove(ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[ch.ID()]; !ok {
		return
	}
	delete(r.channels, ch.ID())

	room := UserRoom(ch.UserID())
	if members, ok := r.rooms[room]; ok {
		delete(members, ch.ID())
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}

	r.logger.Debug("channel removed",
		slog.String("channelID", ch.ID()),
		slog.String("userID", ch.UserID().String()),
		slog.Int("totalChannels", len(r.channels)))
}

// MembersOf returns the live channels of a room; empty if none.
func (r *Registry) MembersOf(room string) []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]Channel, 0, len(r.rooms[room]))
	for _, ch := range r.rooms[room] {
		members = append(members, ch)
	}

	return members
}

// BroadcastAll pushes an event to every registered channel, regardless
// of room. A failed delivery is logged and skipped; one slow channel
// never blocks the rest.
func (r *Registry) BroadcastAll(ev Event) {
	r.mu.RLock()
	targets := make([]Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		targets = append(targets, ch)
	}
	r.mu.RUnlock()

	r.deliver(targets, ev)
}

// Publish pushes an event to one room only. A room with no members has
// no effect.
func (r *Registry) Publish(room string, ev Event) {
	r.deliver(r.MembersOf(room), ev)
}

func (r *Registry) deliver(targets []Channel, ev Event) {
	for _, ch := range targets {
		if err := ch.Deliver(ev); err != nil {
			r.logger.Debug("dropped event for channel",
				slog.String("channelID", ch.ID()),
				slog.String("event", string(ev.Kind())),
				slog.Any("error", err))
		}
	}
}
