package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
)

type recordingHandler struct {
	types []string
	seen  []Event
	err   error
}

func (h *recordingHandler) Accepts(eventType string) bool {
	for _, t := range h.types {
		if t == eventType {
			return true
		}
	}
	return false
}

func (h *recordingHandler) Handle(e Event) error {
	h.seen = append(h.seen, e)
	return h.err
}

func TestMemoryJournal_VersionsPerStream(t *testing.T) {
	store := NewMemoryJournal()

	require.NoError(t, store.Append("run-a", New(DemandUnmetEvent, "run-a", DemandUnmet{})))
	require.NoError(t, store.Append("run-b", New(DemandUnmetEvent, "run-b", DemandUnmet{})))
	require.NoError(t, store.Append("run-a", New(RunCompletedEvent, "run-a", RunCompleted{})))

	a, err := store.Stream("run-a", 0)
	require.NoError(t, err)
	require.Len(t, a, 2)
	assert.Equal(t, 1, a[0].Version())
	assert.Equal(t, 2, a[1].Version())
	assert.Equal(t, RunCompletedEvent, a[1].Type())

	tail, err := store.Stream("run-a", 2)
	require.NoError(t, err)
	assert.Len(t, tail, 1)

	none, err := store.Stream("missing", 1)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := store.All(1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "run-b", all[0].StreamID())
}

func TestMemoryJournal_Subscribers(t *testing.T) {
	store := NewMemoryJournal()
	shortages := &recordingHandler{types: []string{MaterialShortageEvent}}
	failing := &recordingHandler{types: []string{MaterialShortageEvent}, err: errors.New("boom")}
	require.NoError(t, store.Subscribe([]string{MaterialShortageEvent}, shortages))
	require.NoError(t, store.Subscribe([]string{MaterialShortageEvent}, failing))

	require.NoError(t, store.Append("run", New(DemandUnmetEvent, "run", DemandUnmet{})))
	assert.Empty(t, shortages.seen)

	err := store.Append("run", New(MaterialShortageEvent, "run", MaterialShortage{}))
	require.Error(t, err)
	assert.Len(t, shortages.seen, 1)
	assert.Len(t, failing.seen, 1)

	require.NoError(t, store.Unsubscribe(failing))
	require.NoError(t, store.Append("run", New(MaterialShortageEvent, "run", MaterialShortage{})))
	assert.Len(t, shortages.seen, 2)
	assert.Len(t, failing.seen, 1)
}

func TestLogHandler(t *testing.T) {
	h := LogHandler{Log: logger.NopLogger{}}
	for _, eventType := range AllEventTypes {
		assert.True(t, h.Accepts(eventType), eventType)
	}
	assert.False(t, h.Accepts("other"))

	for _, data := range []any{
		RunCompleted{},
		DemandUnmet{Unmet: entities.UnmetDemand{OrderID: "SO-1"}},
		MaterialShortage{Exception: entities.ExceptionRecord{Material: "CAP-28MM"}},
		PolicyBreach{Position: entities.PolicyAdherence{Key: "FILM"}},
	} {
		assert.NoError(t, h.Handle(New("any", "run", data)))
	}
}
