package realtime

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/domain/entity"
	"taskflow/internal/errors"
)

// fakeChannel records delivered events in memory.
type fakeChannel struct {
	id      string
	userID  uuid.UUID
	failing bool

	mu     sync.Mutex
	events []Event
}

func newFakeChannel(userID uuid.UUID) *fakeChannel {
	return &fakeChannel{id: uuid.NewString(), userID: userID}
}

func (c *fakeChannel) ID() string       { return c.id }
func (c *fakeChannel) UserID() uuid.UUID { return c.userID }

func (c *fakeChannel) Deliver(ev Event) error {
	if c.failing {
		return errors.New("teardown in progress")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)

	return nil
}

func (c *fakeChannel) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Event(nil), c.events...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry() *Registry {
	return NewRegistry(testLogger())
}

func TestRegistry_AdmitIsIdempotent(t *testing.T) {
	reg := newTestRegistry()
	ch := newFakeChannel(uuid.New())

	reg.Admit(ch)
	reg.Admit(ch)

	members := reg.MembersOf(UserRoom(ch.UserID()))
	require.Len(t, members, 1)

	reg.BroadcastAll(&TaskDeleted{TaskID: uuid.New()})
	assert.Len(t, ch.received(), 1, "double admission must not duplicate delivery")
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	reg := newTestRegistry()
	ch := newFakeChannel(uuid.New())

	reg.Admit(ch)
	reg.Remove(ch)
	reg.Remove(ch)

	assert.Empty(t, reg.MembersOf(UserRoom(ch.UserID())))

	reg.BroadcastAll(&TaskDeleted{TaskID: uuid.New()})
	assert.Empty(t, ch.received())
}

func TestRegistry_MultipleChannelsPerUser(t *testing.T) {
	reg := newTestRegistry()
	userID := uuid.New()
	tab1 := newFakeChannel(userID)
	tab2 := newFakeChannel(userID)
	other := newFakeChannel(uuid.New())

	reg.Admit(tab1)
	reg.Admit(tab2)
	reg.Admit(other)

	task := &entity.Task{ID: uuid.New(), Title: "Ship release"}
	reg.Publish(UserRoom(userID), &TaskAssigned{Message: "You have been assigned to task: Ship release", Task: task})

	assert.Len(t, tab1.received(), 1, "every channel of the target user receives exactly one copy")
	assert.Len(t, tab2.received(), 1)
	assert.Empty(t, other.received(), "channels outside the room receive nothing")
}

func TestRegistry_BroadcastAllReachesEveryRoom(t *testing.T) {
	reg := newTestRegistry()
	a := newFakeChannel(uuid.New())
	b := newFakeChannel(uuid.New())

	reg.Admit(a)
	reg.Admit(b)

	reg.BroadcastAll(&TaskCreated{Task: &entity.Task{ID: uuid.New()}})

	assert.Len(t, a.received(), 1)
	assert.Len(t, b.received(), 1)
}

func TestRegistry_PublishToEmptyRoomIsNoop(t *testing.T) {
	reg := newTestRegistry()
	ch := newFakeChannel(uuid.New())
	reg.Admit(ch)

	reg.Publish(UserRoom(uuid.New()), &TaskAssigned{Message: "hi"})

	assert.Empty(t, ch.received())
}

func TestRegistry_FailingChannelDoesNotBlockOthers(t *testing.T) {
	reg := newTestRegistry()
	broken := newFakeChannel(uuid.New())
	broken.failing = true
	healthy := newFakeChannel(uuid.New())

	reg.Admit(broken)
	reg.Admit(healthy)

	reg.BroadcastAll(&TaskDeleted{TaskID: uuid.New()})

	assert.Len(t, healthy.received(), 1, "one channel's failure must not block delivery to others")
}

func TestRegistry_RemoveDropsEmptyRoom(t *testing.T) {
	reg := newTestRegistry()
	userID := uuid.New()
	ch := newFakeChannel(userID)

	reg.Admit(ch)
	reg.Remove(ch)

	assert.Empty(t, reg.MembersOf(UserRoom(userID)))
}
