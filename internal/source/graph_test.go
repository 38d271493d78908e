package source

import (
	"go/format"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResourceMap(t *testing.T) {
	records := []ResourceRecord{
		{ID: 9, PageTitle: "Contact", URI: "contact.html"},
		{ID: 1, PageTitle: "Home", Alias: "index"},
		{ID: 4, LongTitle: "Team", URI: "about/team/", Deleted: true},
	}
	m := BuildResourceMap(records).WithHome(1)

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []int64{1, 4, 9}, m.SortedIDs())

	ref, ok := m.Lookup(4)
	require.True(t, ok)
	assert.Equal(t, "Team", ref.Title)

	tests := []struct {
		id   int64
		want string
		ok   bool
	}{
		{1, "/", true},
		{9, "/contact", true},
		{4, "/about/team", true},
		{77, "", false},
	}
	for _, tt := range tests {
		got, ok := m.Href(tt.id)
		assert.Equal(t, tt.ok, ok, "id %d", tt.id)
		assert.Equal(t, tt.want, got, "id %d", tt.id)
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"about.html":       "about",
		"/blog/":           "blog",
		"news/item.html/":  "news/item",
		"  ":               "",
		"assets/file.html": "assets/file",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanPath(in), in)
	}
}

func TestDetectHomepage(t *testing.T) {
	records := []ResourceRecord{
		{ID: 3, Parent: 0, MenuIndex: 0},
		{ID: 2, Parent: 0, MenuIndex: 0, Alias: "about"},
		{ID: 5, Parent: 0, MenuIndex: 1},
		{ID: 8, Deleted: true},
	}
	assert.Equal(t, int64(3), DetectHomepage(records, 0))
	assert.Equal(t, int64(5), DetectHomepage(records, 5))
	assert.Equal(t, int64(3), DetectHomepage(records, 8), "deleted site_start falls back")
	assert.Equal(t, int64(3), DetectHomepage(records, 42))
	assert.Zero(t, DetectHomepage(nil, 0))
}

func TestResourceKind(t *testing.T) {
	assert.Equal(t, KindStaticFile, ResourceRecord{ClassKey: "modStaticResource"}.Kind())
	assert.Equal(t, KindWebLink, ResourceRecord{ClassKey: "modWebLink"}.Kind())
	assert.Equal(t, KindStaticFile, ResourceRecord{ClassKey: "modDocument", ContentType: "application/pdf"}.Kind())
	assert.Equal(t, KindDocument, ResourceRecord{ClassKey: "modDocument", ContentType: "text/html"}.Kind())
	assert.Equal(t, "resource 12", ResourceRecord{ID: 12}.Title())
}

func TestGraphSourceIsFormatted(t *testing.T) {
	src, err := os.ReadFile("graph.go")
	require.NoError(t, err)
	got, err := format.Source(src)
	require.NoError(t, err)
	assert.Equal(t, string(src), string(got))
}
