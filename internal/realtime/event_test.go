package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/domain/entity"
)

func TestEncodeDecodeEvent_RoundTrip(t *testing.T) {
	assignee := uuid.New()
	task := &entity.Task{
		ID:           uuid.New(),
		Title:        "Fix login flow",
		Description:  "Session cookie is dropped on refresh",
		DueDate:      time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC),
		Priority:     entity.PriorityHigh,
		Status:       entity.StatusInProgress,
		CreatorID:    uuid.New(),
		AssignedToID: &assignee,
	}

	tests := []struct {
		name string
		ev   Event
	}{
		{"created", &TaskCreated{Task: task}},
		{"updated", &TaskUpdated{Task: task}},
		{"deleted", &TaskDeleted{TaskID: task.ID}},
		{"assigned", &TaskAssigned{Message: "You have been assigned to task: Fix login flow", Task: task}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := EncodeEvent(tt.ev)
			require.NoError(t, err)

			decoded, err := DecodeEvent(frame)
			require.NoError(t, err)
			assert.Equal(t, tt.ev.Kind(), decoded.Kind())

			switch ev := decoded.(type) {
			case *TaskCreated:
				assert.Equal(t, task.ID, ev.Task.ID)
			case *TaskUpdated:
				assert.Equal(t, task.Title, ev.Task.Title)
			case *TaskDeleted:
				assert.Equal(t, task.ID, ev.TaskID)
			case *TaskAssigned:
				assert.Contains(t, ev.Message, task.Title)
				require.NotNil(t, ev.Task.AssignedToID)
				assert.Equal(t, assignee, *ev.Task.AssignedToID)
			}
		})
	}
}

func TestDecodeEvent_UnknownKind(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"event":"task:archived","data":{}}`))
	require.Error(t, err)
}

func TestDecodeEvent_MalformedFrame(t *testing.T) {
	_, err := DecodeEvent([]byte(`not json`))
	require.Error(t, err)
}
