package source

import (
	"sort"
	"strconv"
)

// ResourceRef is the slice of a resource needed to resolve references to it.
type ResourceRef struct {
	ID      int64
	Alias   string
	URI     string
	Title   string
	Parent  int64
	Kind    ResourceKind
	Deleted bool
}

// ResourceMap indexes every extracted resource by id, deleted ones included.
// It is read-only after construction.
type ResourceMap struct {
	refs   map[int64]ResourceRef
	homeID int64
}

// BuildResourceMap indexes records by id. Later duplicates of an id replace earlier ones.
func BuildResourceMap(records []ResourceRecord) ResourceMap {
	refs := make(map[int64]ResourceRef, len(records))
	for _, r := range records {
		refs[r.ID] = ResourceRef{
			ID:      r.ID,
			Alias:   r.Alias,
			URI:     r.URI,
			Title:   r.Title(),
			Parent:  r.Parent,
			Kind:    r.Kind(),
			Deleted: r.Deleted,
		}
	}
	return ResourceMap{refs: refs}
}

// WithHome returns a copy of the map that resolves id to the site root.
func (m ResourceMap) WithHome(id int64) ResourceMap {
	m.homeID = id
	return m
}

// HomeID returns the homepage id, 0 when unset.
func (m ResourceMap) HomeID() int64 { return m.homeID }

// Lookup returns the reference for id.
func (m ResourceMap) Lookup(id int64) (ResourceRef, bool) {
	ref, ok := m.refs[id]
	return ref, ok
}

// Len returns the number of indexed resources.
func (m ResourceMap) Len() int { return len(m.refs) }

// SortedIDs returns all ids ascending.
func (m ResourceMap) SortedIDs() []int64 {
	ids := make([]int64, 0, len(m.refs))
	for id := range m.refs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Path returns the cleaned path of id, "" for unknown ids and empty paths.
func (m ResourceMap) Path(id int64) string {
	ref, ok := m.refs[id]
	if !ok {
		return ""
	}
	if p := CleanPath(ref.URI); p != "" {
		return p
	}
	return CleanPath(ref.Alias)
}

// Href returns the site-absolute URL of id: "/" for the homepage, otherwise
// "/" + the cleaned path. The boolean is false for unknown ids.
func (m ResourceMap) Href(id int64) (string, bool) {
	ref, ok := m.refs[id]
	if !ok {
		return "", false
	}
	if m.homeID != 0 && id == m.homeID {
		return "/", true
	}
	p := m.Path(ref.ID)
	if p == "" {
		p = strconv.FormatInt(id, 10)
	}
	return "/" + p, true
}

// DetectHomepage picks the homepage id: siteStart when it names an existing,
// non-deleted resource, otherwise the first resource with an empty path under
// the root at menu position 0. Returns 0 when none qualifies.
func DetectHomepage(records []ResourceRecord, siteStart int64) int64 {
	if siteStart > 0 {
		for _, r := range records {
			if r.ID == siteStart && !r.Deleted {
				return r.ID
			}
		}
	}
	var best int64
	for _, r := range records {
		if r.Deleted || r.Parent != 0 || r.MenuIndex != 0 || r.Path() != "" {
			continue
		}
		if best == 0 || r.ID < best {
			best = r.ID
		}
	}
	return best
}

// SystemSettingValue returns the value of key, "" when absent.
func SystemSettingValue(settings []SystemSetting, key string) string {
	for _, s := range settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
