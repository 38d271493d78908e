package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySite       = "site"
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyTable      = "table"
	KeyRows       = "rows"
	KeyResourceID = "resource_id"
	KeyResource   = "resource"
	KeyLayout     = "layout"
	KeyField      = "field"
	KeyAsset      = "asset"
	KeyStrategy   = "strategy"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Site(name string) slog.Attr      { return slog.String(KeySite, name) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Table(name string) slog.Attr     { return slog.String(KeyTable, name) }
func Rows(n int) slog.Attr            { return slog.Int(KeyRows, n) }
func ResourceID(id int64) slog.Attr   { return slog.Int64(KeyResourceID, id) }
func Resource(title string) slog.Attr { return slog.String(KeyResource, title) }
func Layout(kind int) slog.Attr       { return slog.Int(KeyLayout, kind) }
func Field(kind int) slog.Attr        { return slog.Int(KeyField, kind) }
func Asset(ref string) slog.Attr      { return slog.String(KeyAsset, ref) }
func Strategy(name string) slog.Attr  { return slog.String(KeyStrategy, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
