// Package anomaly records recoverable, per-item problems found while converting a
// dump: unresolved references, unknown layout or field kinds, malformed rows and
// missing assets. Nothing recorded here aborts a run; the ordered log is written
// out at the end for manual review.
package anomaly

import (
	"log/slog"
	"sort"
)

// Code enumerates machine-parseable anomaly identifiers.
// These codes are a stable contract and should only be appended.
type Code string

const (
	CodeMalformedTuple     Code = "MALFORMED_TUPLE"
	CodeMissingTable       Code = "MISSING_TABLE"
	CodeDuplicateStatement Code = "DUPLICATE_STATEMENT"
	CodeUnresolvedLink     Code = "UNRESOLVED_LINK"
	CodeUnknownLayout      Code = "UNKNOWN_LAYOUT"
	CodeUnknownField       Code = "UNKNOWN_FIELD"
	CodeUnknownRepeater    Code = "UNKNOWN_REPEATER"
	CodeUnresolvedAsset    Code = "UNRESOLVED_ASSET"
	CodeBlocksDecodeFailed Code = "BLOCKS_DECODE_FAILED"
	CodeResourceFailed     Code = "RESOURCE_FAILED"
	CodeUnresolvedParent   Code = "UNRESOLVED_PARENT"
	CodeMissingPath        Code = "MISSING_PATH"
	CodeAssetCopyFailed    Code = "ASSET_COPY_FAILED"
	CodeDuplicatePath      Code = "DUPLICATE_PATH"
)

// Severity is the normalized severity of an entry.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Entry is one recorded anomaly with enough context to diagnose it after the run.
type Entry struct {
	Code       Code     `json:"code"`
	Severity   Severity `json:"severity"`
	Resource   string   `json:"resource,omitempty"`
	ResourceID int64    `json:"resource_id,omitempty"`
	Kind       string   `json:"kind,omitempty"`
	Token      string   `json:"token,omitempty"`
	Message    string   `json:"message"`
}

// Recorder receives anomalies.
type Recorder interface {
	Record(e Entry)
}

// Log is the append-only, ordered anomaly list for one run. It has a single
// writer; runs never share a Log.
type Log struct {
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Record appends e, defaulting the severity to warning.
func (l *Log) Record(e Entry) {
	if e.Severity == "" {
		e.Severity = SeverityWarning
	}
	l.entries = append(l.entries, e)
	slog.Debug("Anomaly recorded",
		slog.String("code", string(e.Code)),
		slog.String("resource", e.Resource),
		slog.String("token", e.Token),
		slog.String("message", e.Message))
}

// Entries returns a copy of the recorded entries in insertion order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int { return len(l.entries) }

// Count returns how many entries carry code.
func (l *Log) Count(code Code) int {
	n := 0
	for _, e := range l.entries {
		if e.Code == code {
			n++
		}
	}
	return n
}

// CountByCode aggregates entries per code.
func (l *Log) CountByCode() map[Code]int {
	out := make(map[Code]int)
	for _, e := range l.entries {
		out[e.Code]++
	}
	return out
}

// Codes returns the distinct codes present, sorted.
func (l *Log) Codes() []Code {
	counts := l.CountByCode()
	codes := make([]Code, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Record(Entry) {}

// scoped fills the resource identity on entries that do not carry one.
type scoped struct {
	next  Recorder
	id    int64
	title string
}

// ForResource returns a Recorder tagging entries with the given resource.
func ForResource(next Recorder, id int64, title string) Recorder {
	if next == nil {
		next = Discard{}
	}
	return &scoped{next: next, id: id, title: title}
}

func (s *scoped) Record(e Entry) {
	if e.ResourceID == 0 {
		e.ResourceID = s.id
	}
	if e.Resource == "" {
		e.Resource = s.title
	}
	s.next.Record(e)
}
