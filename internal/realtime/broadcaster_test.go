package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/domain/entity"
)

func TestBroadcaster_TaskCreatedReachesAllClients(t *testing.T) {
	reg := newTestRegistry()
	creator := newFakeChannel(uuid.New())
	observer := newFakeChannel(uuid.New())
	reg.Admit(creator)
	reg.Admit(observer)

	b := NewBroadcaster(reg, testLogger())
	task := &entity.Task{ID: uuid.New(), Title: "Write docs"}
	b.TaskCreated(task)

	for _, ch := range []*fakeChannel{creator, observer} {
		events := ch.received()
		require.Len(t, events, 1)
		created, ok := events[0].(*TaskCreated)
		require.True(t, ok)
		assert.Equal(t, task.ID, created.Task.ID)
	}
}

func TestBroadcaster_AssignmentTargetsRoomOnly(t *testing.T) {
	reg := newTestRegistry()
	assigneeID := uuid.New()
	assigneeTab1 := newFakeChannel(assigneeID)
	assigneeTab2 := newFakeChannel(assigneeID)
	bystander := newFakeChannel(uuid.New())
	reg.Admit(assigneeTab1)
	reg.Admit(assigneeTab2)
	reg.Admit(bystander)

	b := NewBroadcaster(reg, testLogger())
	task := &entity.Task{ID: uuid.New(), Title: "Review PR", AssignedToID: &assigneeID}
	b.TaskAssigned(assigneeID, task)

	for _, ch := range []*fakeChannel{assigneeTab1, assigneeTab2} {
		events := ch.received()
		require.Len(t, events, 1)
		assigned, ok := events[0].(*TaskAssigned)
		require.True(t, ok)
		assert.Contains(t, assigned.Message, "Review PR")
		assert.Equal(t, task.ID, assigned.Task.ID)
	}

	assert.Empty(t, bystander.received())
}

func TestBroadcaster_TaskDeletedCarriesIDOnly(t *testing.T) {
	reg := newTestRegistry()
	ch := newFakeChannel(uuid.New())
	reg.Admit(ch)

	b := NewBroadcaster(reg, testLogger())
	taskID := uuid.New()
	b.TaskDeleted(taskID)

	events := ch.received()
	require.Len(t, events, 1)
	deleted, ok := events[0].(*TaskDeleted)
	require.True(t, ok)
	assert.Equal(t, taskID, deleted.TaskID)
}

func TestBroadcaster_UpdateThenAssignEmitsTwoEvents(t *testing.T) {
	reg := newTestRegistry()
	assigneeID := uuid.New()
	assignee := newFakeChannel(assigneeID)
	other := newFakeChannel(uuid.New())
	reg.Admit(assignee)
	reg.Admit(other)

	b := NewBroadcaster(reg, testLogger())
	task := &entity.Task{ID: uuid.New(), Title: "Deploy", AssignedToID: &assigneeID}

	// The usecase emits task:updated to all, then task:assigned to the room.
	b.TaskUpdated(task)
	b.TaskAssigned(assigneeID, task)

	assigneeEvents := assignee.received()
	require.Len(t, assigneeEvents, 2)
	assert.Equal(t, KindTaskUpdated, assigneeEvents[0].Kind())
	assert.Equal(t, KindTaskAssigned, assigneeEvents[1].Kind())

	otherEvents := other.received()
	require.Len(t, otherEvents, 1)
	assert.Equal(t, KindTaskUpdated, otherEvents[0].Kind())
}
