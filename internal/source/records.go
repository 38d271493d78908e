// Package source maps the tuples of the legacy CMS tables to typed records using
// the fixed column order of each table, and builds the id-keyed resource graph
// used for link resolution.
package source

import (
	"fmt"
	"strings"
)

// ResourceKind discriminates content nodes by their class key.
type ResourceKind string

const (
	KindDocument   ResourceKind = "document"
	KindStaticFile ResourceKind = "static"
	KindWebLink    ResourceKind = "weblink"
	KindSymLink    ResourceKind = "symlink"
)

// ResourceRecord is one content node. Records are materialized once per
// extracted row and never mutated.
type ResourceRecord struct {
	ID          int64
	Type        string
	ContentType string
	PageTitle   string
	LongTitle   string
	Description string
	Alias       string
	Published   bool
	Parent      int64
	IsFolder    bool
	IntroText   string
	Content     string
	Template    int64
	MenuIndex   int64
	Deleted     bool
	MenuTitle   string
	HideMenu    bool
	ClassKey    string
	Context     string
	URI         string
	// Properties is the raw nested-layout blob, decoded lazily by the mapper.
	Properties string
}

// Kind derives the resource kind from the class key and content type.
func (r ResourceRecord) Kind() ResourceKind {
	switch strings.ToLower(r.ClassKey) {
	case "modstaticresource":
		return KindStaticFile
	case "modweblink":
		return KindWebLink
	case "modsymlink":
		return KindSymLink
	}
	ct := strings.ToLower(strings.TrimSpace(r.ContentType))
	if ct != "" && ct != "text/html" {
		return KindStaticFile
	}
	return KindDocument
}

// Title returns the best display title.
func (r ResourceRecord) Title() string {
	switch {
	case strings.TrimSpace(r.PageTitle) != "":
		return strings.TrimSpace(r.PageTitle)
	case strings.TrimSpace(r.LongTitle) != "":
		return strings.TrimSpace(r.LongTitle)
	default:
		return fmt.Sprintf("resource %d", r.ID)
	}
}

// NavTitle prefers the menu title.
func (r ResourceRecord) NavTitle() string {
	if t := strings.TrimSpace(r.MenuTitle); t != "" {
		return t
	}
	return r.Title()
}

// Path is the cleaned output path derived from the URI, falling back to the alias.
func (r ResourceRecord) Path() string {
	if p := CleanPath(r.URI); p != "" {
		return p
	}
	return CleanPath(r.Alias)
}

// CleanPath strips surrounding slashes and a trailing ".html".
func CleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, "/")
	p = strings.TrimSuffix(p, ".html")
	return strings.Trim(p, "/")
}

// Setting is one client-config key/value pair.
type Setting struct {
	Key     string
	Label   string
	XType   string
	Value   string
	Default string
	Group   string
}

// Effective returns the value, or the default when the value is empty.
func (s Setting) Effective() string {
	if strings.TrimSpace(s.Value) != "" {
		return s.Value
	}
	return s.Default
}

// RedirectRow is one row of the redirect plugin table.
type RedirectRow struct {
	ID      int64
	Pattern string
	Target  string
	Context string
	Active  bool
}

// SystemSetting is one row of the system settings table.
type SystemSetting struct {
	Key   string
	Value string
}
