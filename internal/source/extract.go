package source

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
	"git.home.luguber.info/inful/dumpsite/internal/sqldump"
)

// Tables extracts typed records from a dump whose table names carry Prefix.
type Tables struct {
	Prefix string
}

// DefaultTables uses the stock table prefix.
var DefaultTables = Tables{Prefix: DefaultPrefix}

// Name returns the prefixed table name.
func (t Tables) Name(table string) string {
	return t.Prefix + table
}

// ExtractResources returns every row of the resources table, including
// soft-deleted rows. The table is required.
func (t Tables) ExtractResources(dump string, rec anomaly.Recorder) ([]ResourceRecord, error) {
	rows, ok := t.rows(dump, TableResources, ResourceColumns, rec)
	if !ok {
		return nil, derrors.DumpError("resources table not found in dump").
			WithContext("table", t.Name(TableResources)).
			Fatal().
			Build()
	}
	out := make([]ResourceRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ResourceRecord{
			ID:          row[colResID].Int64(),
			Type:        row[colResType].String(),
			ContentType: row[colResContentType].String(),
			PageTitle:   row[colResPageTitle].String(),
			LongTitle:   row[colResLongTitle].String(),
			Description: row[colResDescription].String(),
			Alias:       row[colResAlias].String(),
			Published:   row[colResPublished].Bool(),
			Parent:      row[colResParent].Int64(),
			IsFolder:    row[colResIsFolder].Bool(),
			IntroText:   row[colResIntroText].String(),
			Content:     row[colResContent].String(),
			Template:    row[colResTemplate].Int64(),
			MenuIndex:   row[colResMenuIndex].Int64(),
			Deleted:     row[colResDeleted].Bool(),
			MenuTitle:   row[colResMenuTitle].String(),
			HideMenu:    row[colResHideMenu].Bool(),
			ClassKey:    row[colResClassKey].String(),
			Context:     row[colResContext].String(),
			URI:         row[colResURI].String(),
			Properties:  row[colResProperties].String(),
		})
	}
	return out, nil
}

// ExtractSettings returns the client-config settings. A missing table is not an error.
func (t Tables) ExtractSettings(dump string, rec anomaly.Recorder) ([]Setting, error) {
	rows, _ := t.rows(dump, TableClientConfig, SettingColumns, rec)
	out := make([]Setting, 0, len(rows))
	for _, row := range rows {
		out = append(out, Setting{
			Key:     row[colSetKey].String(),
			Label:   row[colSetLabel].String(),
			XType:   row[colSetXType].String(),
			Value:   row[colSetValue].String(),
			Default: row[colSetDefault].String(),
			Group:   row[colSetGroup].String(),
		})
	}
	return out, nil
}

// ExtractRedirects returns the redirect plugin rows. A missing table is not an error.
func (t Tables) ExtractRedirects(dump string, rec anomaly.Recorder) ([]RedirectRow, error) {
	rows, _ := t.rows(dump, TableRedirects, RedirectColumns, rec)
	out := make([]RedirectRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, RedirectRow{
			ID:      row[colRedID].Int64(),
			Pattern: row[colRedPattern].String(),
			Target:  row[colRedTarget].String(),
			Context: row[colRedContext].String(),
			Active:  row[colRedActive].Bool(),
		})
	}
	return out, nil
}

// ExtractSystemSettings returns the system settings rows. A missing table is not an error.
func (t Tables) ExtractSystemSettings(dump string, rec anomaly.Recorder) ([]SystemSetting, error) {
	rows, _ := t.rows(dump, TableSystemSettings, SystemSettingColumns, rec)
	out := make([]SystemSetting, 0, len(rows))
	for _, row := range rows {
		out = append(out, SystemSetting{
			Key:   row[colSysKey].String(),
			Value: row[colSysValue].String(),
		})
	}
	return out, nil
}

// ExtractResources uses DefaultTables.
func ExtractResources(dump string, rec anomaly.Recorder) ([]ResourceRecord, error) {
	return DefaultTables.ExtractResources(dump, rec)
}

// ExtractSettings uses DefaultTables.
func ExtractSettings(dump string, rec anomaly.Recorder) ([]Setting, error) {
	return DefaultTables.ExtractSettings(dump, rec)
}

// ExtractRedirects uses DefaultTables.
func ExtractRedirects(dump string, rec anomaly.Recorder) ([]RedirectRow, error) {
	return DefaultTables.ExtractRedirects(dump, rec)
}

// ExtractSystemSettings uses DefaultTables.
func ExtractSystemSettings(dump string, rec anomaly.Recorder) ([]SystemSetting, error) {
	return DefaultTables.ExtractSystemSettings(dump, rec)
}

// rows locates the table statement and returns the tuples wide enough for the
// schema. The boolean is false when the table has no INSERT statement.
func (t Tables) rows(dump, table string, width int, rec anomaly.Recorder) ([]sqldump.Tuple, bool) {
	if rec == nil {
		rec = anomaly.Discard{}
	}
	name := t.Name(table)
	values, ok := sqldump.FindInsert(dump, name)
	if !ok {
		slog.Warn("Table not present in dump", logfields.Table(name))
		rec.Record(anomaly.Entry{
			Code:    anomaly.CodeMissingTable,
			Kind:    name,
			Message: fmt.Sprintf("no INSERT statement for table %s", name),
		})
		return nil, false
	}
	if n := sqldump.CountInserts(dump, name); n > 1 {
		rec.Record(anomaly.Entry{
			Code:    anomaly.CodeDuplicateStatement,
			Kind:    name,
			Message: fmt.Sprintf("%d INSERT statements for table %s, only the first is read", n, name),
		})
	}

	split := sqldump.SplitTuples(values)
	for _, d := range split.Dropped {
		rec.Record(anomaly.Entry{
			Code:    anomaly.CodeMalformedTuple,
			Kind:    name,
			Token:   excerpt(d),
			Message: "unterminated tuple",
		})
	}

	out := make([]sqldump.Tuple, 0, len(split.Tuples))
	for _, tup := range split.Tuples {
		if len(tup) < width {
			rec.Record(anomaly.Entry{
				Code:    anomaly.CodeMalformedTuple,
				Kind:    name,
				Token:   excerptTuple(tup),
				Message: fmt.Sprintf("tuple has %d columns, want %d", len(tup), width),
			})
			continue
		}
		out = append(out, tup)
	}
	slog.Debug("Extracted table", logfields.Table(name), logfields.Rows(len(out)))
	return out, true
}

const excerptLen = 80

func excerpt(s string) string {
	if len(s) <= excerptLen {
		return s
	}
	return s[:excerptLen] + "..."
}

func excerptTuple(tup sqldump.Tuple) string {
	if len(tup) == 0 {
		return "()"
	}
	return excerpt(fmt.Sprintf("(%s, ...)", tup[0].String()))
}
