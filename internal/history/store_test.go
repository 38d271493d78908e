package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	base := time.UnixMilli(1_700_000_000_000)

	entries := []anomaly.Entry{
		{Code: anomaly.CodeUnresolvedLink, Severity: anomaly.SeverityWarning, ResourceID: 4, Token: "[[~99]]", Message: "missing"},
		{Code: anomaly.CodeResourceFailed, Severity: anomaly.SeverityError, Resource: "Om oss", Message: "panic"},
	}
	require.NoError(t, store.RecordRun(ctx, Run{
		ID: "r1", Site: "a", Started: base, Finished: base.Add(2 * time.Second),
		Outcome: "warning", Pages: 10, Anomalies: len(entries),
	}, entries))
	require.NoError(t, store.RecordRun(ctx, Run{
		ID: "r2", Site: "b", Started: base.Add(time.Minute), Finished: base.Add(time.Minute),
		Outcome: "failed", Error: "dump missing",
	}, nil))
	require.NoError(t, store.RecordRun(ctx, Run{
		ID: "r3", Site: "a", Started: base.Add(time.Hour), Finished: base.Add(time.Hour), Outcome: "success",
	}, nil))

	all, err := store.Runs(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"r3", "r2", "r1"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "dump missing", all[1].Error)
	assert.Equal(t, 2*time.Second, all[2].Duration())

	siteA, err := store.Runs(ctx, "a", 1)
	require.NoError(t, err)
	require.Len(t, siteA, 1)
	assert.Equal(t, "r3", siteA[0].ID)

	got, err := store.Anomalies(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	none, err := store.Anomalies(ctx, "r3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDuplicateRunIDRejected(t *testing.T) {
	store := newStore(t)
	run := Run{ID: "same", Site: "a", Outcome: "success"}
	require.NoError(t, store.RecordRun(t.Context(), run, nil))
	require.Error(t, store.RecordRun(t.Context(), run, nil))
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, path)
}
