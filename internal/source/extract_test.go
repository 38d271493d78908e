package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
)

func TestExtractResources_MapsColumnsByPosition(t *testing.T) {
	dump := "-- dump\n" + insert("modx_site_content", resourceRow(map[int]any{
		colResID:          7,
		colResType:        "document",
		colResContentType: "text/html",
		colResPageTitle:   "About us",
		colResAlias:       "about",
		colResPublished:   1,
		colResParent:      1,
		colResContent:     "<p>It's (us);</p>",
		colResMenuIndex:   3,
		colResMenuTitle:   "About",
		colResHideMenu:    0,
		colResClassKey:    "modDocument",
		colResContext:     "web",
		colResURI:         "about.html",
		colResProperties:  `{"contentblocks":{}}`,
	}))

	log := anomaly.NewLog()
	got, err := ExtractResources(dump, log)
	require.NoError(t, err)
	require.Len(t, got, 1)
	r := got[0]
	assert.Equal(t, int64(7), r.ID)
	assert.Equal(t, "About us", r.PageTitle)
	assert.Equal(t, "about", r.Alias)
	assert.True(t, r.Published)
	assert.Equal(t, int64(1), r.Parent)
	assert.Equal(t, "<p>It's (us);</p>", r.Content)
	assert.Equal(t, int64(3), r.MenuIndex)
	assert.Equal(t, "About", r.NavTitle())
	assert.Equal(t, "modDocument", r.ClassKey)
	assert.Equal(t, "about", r.Path())
	assert.Equal(t, `{"contentblocks":{}}`, r.Properties)
	assert.Equal(t, KindDocument, r.Kind())
	assert.Zero(t, log.Len())
}

func TestExtractResources_ShortTupleIsDropped(t *testing.T) {
	dump := insert("modx_site_content",
		resourceRow(map[int]any{colResID: 1, colResPageTitle: "Home"}),
		"(2,'document','text/html','Short')",
	)

	log := anomaly.NewLog()
	got, err := ExtractResources(dump, log)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, 1, log.Count(anomaly.CodeMalformedTuple))
}

func TestExtractResources_MissingTableIsFatal(t *testing.T) {
	log := anomaly.NewLog()
	_, err := ExtractResources("-- nothing here\n", log)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryDump))
	assert.Equal(t, 1, log.Count(anomaly.CodeMissingTable))
}

func TestExtractResources_DeletedRowsAreKept(t *testing.T) {
	dump := insert("modx_site_content",
		resourceRow(map[int]any{colResID: 1, colResDeleted: 1}),
		resourceRow(map[int]any{colResID: 2}),
	)
	got, err := ExtractResources(dump, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Deleted)
	assert.False(t, got[1].Deleted)
}

func TestExtract_CustomPrefix(t *testing.T) {
	tables := Tables{Prefix: "cms_"}
	dump := insert("cms_site_content", resourceRow(map[int]any{colResID: 3}))
	got, err := tables.ExtractResources(dump, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestExtract_DuplicateStatementReadsFirstOnly(t *testing.T) {
	dump := insert("modx_site_content", resourceRow(map[int]any{colResID: 1})) +
		insert("modx_site_content", resourceRow(map[int]any{colResID: 2}))
	log := anomaly.NewLog()
	got, err := ExtractResources(dump, log)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, 1, log.Count(anomaly.CodeDuplicateStatement))
}

func TestExtractSettings(t *testing.T) {
	dump := insert("modx_clientconfig_setting",
		tupleText(SettingColumns, map[int]any{
			0: 1, colSetKey: "primary_color", colSetLabel: "Primary", colSetXType: "colorpickerfield",
			colSetValue: "", colSetDefault: "#ff0000", colSetGroup: 2,
		}),
		tupleText(SettingColumns, map[int]any{
			0: 2, colSetKey: "phone", colSetValue: "+47 123", colSetDefault: "",
		}),
	)

	got, err := ExtractSettings(dump, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "primary_color", got[0].Key)
	assert.Equal(t, "#ff0000", got[0].Effective())
	assert.Equal(t, "2", got[0].Group)
	assert.Equal(t, "+47 123", got[1].Effective())
}

func TestExtractSettings_MissingTableIsWarning(t *testing.T) {
	log := anomaly.NewLog()
	got, err := ExtractSettings("", log)
	require.NoError(t, err)
	assert.Empty(t, got)
	entries := log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, anomaly.CodeMissingTable, entries[0].Code)
	assert.Equal(t, anomaly.SeverityWarning, entries[0].Severity)
}

func TestExtractRedirects(t *testing.T) {
	dump := insert("modx_redirects",
		tupleText(RedirectColumns, map[int]any{colRedID: 1, colRedPattern: "old.html", colRedTarget: "[[~5]]", colRedContext: "web", colRedActive: 1}),
		tupleText(RedirectColumns, map[int]any{colRedID: 2, colRedPattern: "gone", colRedTarget: "/", colRedActive: 0}),
	)
	got, err := ExtractRedirects(dump, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "old.html", got[0].Pattern)
	assert.Equal(t, "[[~5]]", got[0].Target)
	assert.True(t, got[0].Active)
	assert.False(t, got[1].Active)
}

func TestExtractSystemSettings(t *testing.T) {
	dump := insert("modx_system_settings",
		tupleText(SystemSettingColumns, map[int]any{colSysKey: "site_start", colSysValue: "4"}),
		tupleText(SystemSettingColumns, map[int]any{colSysKey: "site_name", colSysValue: "Example"}),
	)
	got, err := ExtractSystemSettings(dump, nil)
	require.NoError(t, err)
	assert.Equal(t, "4", SystemSettingValue(got, "site_start"))
	assert.Equal(t, "Example", SystemSettingValue(got, "site_name"))
	assert.Empty(t, SystemSettingValue(got, "missing"))
}
