package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/assemble"
	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

const (
	ContentDir    = "content"
	DataDir       = "data"
	SiteFile      = "site.yaml"
	RedirectsFile = "redirects.yaml"
	PageExt       = ".md"
)

// Summary describes what a Write produced.
type Summary struct {
	Pages     int
	Redirects int
	// Files lists written page paths relative to the content directory, sorted.
	Files []string
}

// Writer renders document sets below Root.
type Writer struct {
	Root string
	Site string
}

// NewWriter returns a Writer for the given output root and site name.
func NewWriter(root, site string) *Writer {
	return &Writer{Root: root, Site: site}
}

// Write replaces the content directory with the pages of set and writes the
// site and redirect data files. Pages whose path was already taken get a
// "-<id>" suffix.
func (w *Writer) Write(set *assemble.DocumentSet, rec anomaly.Recorder) (Summary, error) {
	if rec == nil {
		rec = anomaly.Discard{}
	}
	var sum Summary
	contentRoot := filepath.Join(w.Root, ContentDir)
	if err := os.RemoveAll(contentRoot); err != nil {
		return sum, derrors.WrapError(err, derrors.CategoryFileSystem, "clear content directory").
			WithContext("path", contentRoot).Build()
	}

	taken := make(map[string]int64, len(set.Pages))
	for _, p := range set.Pages {
		rel := p.Path
		if owner, dup := taken[rel]; dup {
			rel = rel + "-" + strconv.FormatInt(p.ResourceID, 10)
			rec.Record(anomaly.Entry{
				Code:       anomaly.CodeDuplicatePath,
				Resource:   p.Title,
				ResourceID: p.ResourceID,
				Token:      p.Path,
				Message:    fmt.Sprintf("path already used by resource %d, written as %s", owner, rel),
			})
			p.Path = rel
		}
		taken[rel] = p.ResourceID

		doc, err := RenderPage(w.Site, p)
		if err != nil {
			return sum, derrors.WrapError(err, derrors.CategoryOutput, "render page").
				WithContext("resource_id", p.ResourceID).Build()
		}
		file := rel + PageExt
		if err := writeFileAtomic(filepath.Join(contentRoot, filepath.FromSlash(file)), doc); err != nil {
			return sum, err
		}
		sum.Files = append(sum.Files, file)
	}
	sort.Strings(sum.Files)
	sum.Pages = len(sum.Files)

	site, err := encodeValue(set.Site)
	if err != nil {
		return sum, derrors.WrapError(err, derrors.CategoryOutput, "encode site config").Build()
	}
	if err := writeFileAtomic(filepath.Join(w.Root, DataDir, SiteFile), site); err != nil {
		return sum, err
	}

	redirects := set.Redirects
	if redirects == nil {
		redirects = []assemble.Redirect{}
	}
	raw, err := encodeValue(redirects)
	if err != nil {
		return sum, derrors.WrapError(err, derrors.CategoryOutput, "encode redirects").Build()
	}
	if err := writeFileAtomic(filepath.Join(w.Root, DataDir, RedirectsFile), raw); err != nil {
		return sum, err
	}
	sum.Redirects = len(set.Redirects)

	slog.Info("Documents written",
		logfields.Site(w.Site),
		logfields.Path(w.Root),
		slog.Int("pages", sum.Pages),
		slog.Int("redirects", sum.Redirects))
	return sum, nil
}

func encodeValue(v any) ([]byte, error) {
	g, err := Generic(v)
	if err != nil {
		return nil, err
	}
	if g == nil {
		g = []any{}
	}
	return EncodeYAML(g)
}

// writeFileAtomic writes via a temp file in the target directory and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create output directory").
			WithContext("path", dir).Build()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write file").
			WithContext("path", tmp).Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return derrors.WrapError(err, derrors.CategoryFileSystem, "rename file").
			WithContext("path", path).Build()
	}
	return nil
}
