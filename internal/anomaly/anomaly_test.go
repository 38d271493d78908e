package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_PreservesOrderAndDefaultsSeverity(t *testing.T) {
	log := NewLog()
	log.Record(Entry{Code: CodeUnresolvedLink, Token: "[[~99]]"})
	log.Record(Entry{Code: CodeUnknownLayout, Kind: "42", Severity: SeverityError})
	log.Record(Entry{Code: CodeUnresolvedLink, Token: "[[~98]]"})

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "[[~99]]", entries[0].Token)
	assert.Equal(t, SeverityWarning, entries[0].Severity)
	assert.Equal(t, SeverityError, entries[1].Severity)
	assert.Equal(t, 2, log.Count(CodeUnresolvedLink))
	assert.Equal(t, []Code{CodeUnknownLayout, CodeUnresolvedLink}, log.Codes())
}

func TestLog_EntriesIsACopy(t *testing.T) {
	log := NewLog()
	log.Record(Entry{Code: CodeMissingTable})
	entries := log.Entries()
	entries[0].Code = CodeMissingPath
	assert.Equal(t, CodeMissingTable, log.Entries()[0].Code)
}

func TestForResource_FillsMissingIdentity(t *testing.T) {
	log := NewLog()
	rec := ForResource(log, 7, "About us")
	rec.Record(Entry{Code: CodeUnknownField})
	rec.Record(Entry{Code: CodeUnknownField, ResourceID: 9, Resource: "Other"})

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(7), entries[0].ResourceID)
	assert.Equal(t, "About us", entries[0].Resource)
	assert.Equal(t, int64(9), entries[1].ResourceID)
	assert.Equal(t, "Other", entries[1].Resource)
}
