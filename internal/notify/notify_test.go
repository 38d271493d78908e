package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
)

func TestRunEventEncode(t *testing.T) {
	ev := RunEvent{
		RunID:     "r1",
		Site:      "kunde",
		Outcome:   "warning",
		Started:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Finished:  time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC),
		Pages:     4,
		Anomalies: map[string]int{"UNRESOLVED_LINK": 2},
	}
	raw, err := ev.Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "kunde", decoded["site"])
	assert.Equal(t, "2024-03-01T12:00:05Z", decoded["finished"])
	assert.NotContains(t, decoded, "error")
}

func TestNewWithoutURLIsNoop(t *testing.T) {
	p, err := New("", "dumpsite.runs")
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)
	require.NoError(t, p.Publish(t.Context(), RunEvent{}))
	p.Close()
}

func TestNewNATSPublisherErrors(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:4222", "")
	require.Error(t, err)
	assert.Equal(t, derrors.CategoryNotify, derrors.GetCategory(err))

	_, err = NewNATSPublisher("nats://127.0.0.1:1", "dumpsite.runs")
	require.Error(t, err)
}
