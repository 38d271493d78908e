package output

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"

	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
)

// Drift is a page whose stored fingerprint does not match its content.
type Drift struct {
	Path   string `json:"path"`
	Stored string `json:"stored"`
	Actual string `json:"actual"`
	Err    string `json:"error,omitempty"`
}

// Verify recomputes the fingerprint of every page below root and reports the
// pages that were edited since they were written.
func Verify(root string) ([]Drift, error) {
	contentRoot := filepath.Join(root, ContentDir)
	if _, err := os.Stat(contentRoot); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNotFound, "content directory not found").
			WithContext("path", contentRoot).Build()
	}
	var drift []Drift
	err := filepath.WalkDir(contentRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, PageExt) {
			return nil
		}
		rel, _ := filepath.Rel(contentRoot, path)
		rel = filepath.ToSlash(rel)
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if found := checkDocument(rel, raw); found != nil {
			drift = append(drift, *found)
		}
		return nil
	})
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "walk content directory").Build()
	}
	sort.Slice(drift, func(i, j int) bool { return drift[i].Path < drift[j].Path })
	return drift, nil
}

func checkDocument(rel string, raw []byte) *Drift {
	fm, body, err := SplitDocument(raw)
	if err != nil {
		return &Drift{Path: rel, Err: err.Error()}
	}
	fields, err := ParseFrontMatter(fm)
	if err != nil {
		return &Drift{Path: rel, Err: err.Error()}
	}
	stored, _ := fields[mdfp.FingerprintField].(string)
	actual, err := Fingerprint(fields, body)
	if err != nil {
		return &Drift{Path: rel, Stored: stored, Err: err.Error()}
	}
	if stored == actual {
		return nil
	}
	return &Drift{Path: rel, Stored: stored, Actual: actual}
}
