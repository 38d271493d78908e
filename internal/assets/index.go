package assets

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

// index maps normalized filenames to media-relative paths. It is built once,
// on the first lookup that needs it.
type index struct {
	uploads map[string]string
	cached  map[string]string
}

func (r *Resolver) index() *index {
	if r.idx != nil {
		return r.idx
	}
	idx := &index{uploads: map[string]string{}, cached: map[string]string{}}

	var uploads []string
	for _, dir := range r.opts.UploadDirs {
		uploads = append(uploads, r.walk(dir)...)
	}
	sort.Strings(uploads)
	for _, p := range uploads {
		key := NormalizeName(path.Base(p))
		if _, dup := idx.uploads[key]; !dup {
			idx.uploads[key] = p
		}
	}

	var cached []string
	for _, dir := range r.opts.CacheDirs {
		cached = append(cached, r.walk(dir)...)
	}
	sort.Strings(cached)
	for _, p := range cached {
		original, ok := StripHash(path.Base(p))
		if !ok {
			continue
		}
		key := NormalizeName(original)
		if _, dup := idx.cached[key]; !dup {
			idx.cached[key] = p
		}
	}

	slog.Debug("Media index built",
		logfields.Count(len(idx.uploads)),
		slog.Int("cached", len(idx.cached)))
	r.idx = idx
	return idx
}

// walk lists every regular file below dir, relative to the media root.
func (r *Resolver) walk(dir string) []string {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p := path.Join(dir, e.Name())
		if e.IsDir() {
			out = append(out, r.walk(p)...)
			continue
		}
		out = append(out, p)
	}
	return out
}
