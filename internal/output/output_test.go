package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/assemble"
	"git.home.luguber.info/inful/dumpsite/internal/blocks"
)

func samplePage() assemble.Page {
	return assemble.Page{
		ResourceID: 7,
		Path:       "om-oss",
		Title:      "Om oss",
		MenuIndex:  2,
		Blocks: []blocks.Block{
			blocks.Heading(2, "Velkommen"),
			blocks.Text("<p>Hei</p>\n---\n<p>Mer</p>"),
		},
	}
}

func TestSplitDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		fm      string
		body    string
		wantErr error
	}{
		{name: "with front matter", doc: "---\na: 1\n---\nbody\n", fm: "a: 1\n", body: "body\n"},
		{name: "empty front matter", doc: "---\n---\nbody", fm: "", body: "body"},
		{name: "no front matter", doc: "plain", body: "plain", wantErr: ErrNoFrontMatter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := SplitDocument([]byte(tt.doc))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.fm, string(fm))
			assert.Equal(t, tt.body, string(body))
		})
	}

	_, _, err := SplitDocument([]byte("---\na: 1\n"))
	require.Error(t, err)
}

func TestEncodeFrontMatterSortsKeys(t *testing.T) {
	out, err := EncodeFrontMatter(map[string]any{
		"zeta":  "1",
		"alpha": map[string]any{"b": 2, "a": true},
		"mid":   []any{"x", 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "alpha:\n  a: true\n  b: 2\nmid:\n  - x\n  - 3\nzeta: \"1\"\n", string(out))
}

func TestPageUIDIsStable(t *testing.T) {
	a := PageUID("site", 7)
	assert.Equal(t, a, PageUID("site", 7))
	assert.NotEqual(t, a, PageUID("site", 8))
	assert.NotEqual(t, a, PageUID("other", 7))
}

func TestRenderPageIsDeterministicAndVerifiable(t *testing.T) {
	p := samplePage()
	first, err := RenderPage("site", p)
	require.NoError(t, err)
	second, err := RenderPage("site", p)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	fm, body, err := SplitDocument(first)
	require.NoError(t, err)
	fields, err := ParseFrontMatter(fm)
	require.NoError(t, err)
	assert.Equal(t, "Om oss", fields["title"])
	assert.Equal(t, PageUID("site", 7), fields[FieldUID])

	fp, err := Fingerprint(fields, body)
	require.NoError(t, err)
	assert.Equal(t, fields[mdfp.FingerprintField], fp)
}

func TestWriterWritesDocuments(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, ContentDir, "stale.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o750))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))

	dup := samplePage()
	dup.ResourceID = 9
	set := &assemble.DocumentSet{
		Pages: []assemble.Page{
			{ResourceID: 1, Path: "index", Title: "Hjem", IsHomepage: true},
			samplePage(),
			dup,
			{ResourceID: 3, Path: "tjenester/radgivning", Title: "Rådgivning"},
		},
		Site:      assemble.SiteConfig{Name: "Test"},
		Redirects: []assemble.Redirect{{From: "/gammel", To: "/om-oss", Status: 301}},
	}
	log := anomaly.NewLog()

	sum, err := NewWriter(root, "test").Write(set, log)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Pages)
	assert.Equal(t, 1, sum.Redirects)
	assert.Equal(t, []string{"index.md", "om-oss-9.md", "om-oss.md", "tjenester/radgivning.md"}, sum.Files)
	assert.Equal(t, 1, log.Count(anomaly.CodeDuplicatePath))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(root, DataDir, SiteFile))

	redirects, err := os.ReadFile(filepath.Join(root, DataDir, RedirectsFile))
	require.NoError(t, err)
	assert.Contains(t, string(redirects), "from: /gammel")

	drift, err := Verify(root)
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestVerifyReportsEditedPages(t *testing.T) {
	root := t.TempDir()
	set := &assemble.DocumentSet{Pages: []assemble.Page{samplePage()}}
	_, err := NewWriter(root, "test").Write(set, nil)
	require.NoError(t, err)

	path := filepath.Join(root, ContentDir, "om-oss.md")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(raw, []byte("edited\n")...), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ContentDir, "plain.md"), []byte("no front matter"), 0o600))

	drift, err := Verify(root)
	require.NoError(t, err)
	require.Len(t, drift, 2)
	assert.Equal(t, "om-oss.md", drift[0].Path)
	assert.NotEqual(t, drift[0].Stored, drift[0].Actual)
	assert.Equal(t, "plain.md", drift[1].Path)
	assert.NotEmpty(t, drift[1].Err)
}

func TestVerifyMissingContent(t *testing.T) {
	_, err := Verify(t.TempDir())
	require.Error(t, err)
}
