// Package layout maps the nested page-builder property of a resource to the
// generic block tree. Layout entries are dispatched by numeric kind to layout
// handlers, which in turn dispatch each field of their content areas to field
// handlers. Unknown kinds degrade to best-effort output plus an anomaly.
package layout

import (
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/blocks"
	"git.home.luguber.info/inful/dumpsite/internal/links"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

// LayoutHandler turns the mapped areas of one layout entry into blocks.
type LayoutHandler func(c *Context, areas map[string][]Field, settings Settings) []blocks.Block

// FieldHandler turns one field into zero or more blocks.
type FieldHandler func(c *Context, f Field) []blocks.Block

// AssetResolver maps a media reference to its output URL.
type AssetResolver interface {
	Resolve(ref string, rec anomaly.Recorder) string
}

// Mapper holds the dispatch tables and the shared resolvers. It is read-only
// after construction.
type Mapper struct {
	links   *links.Resolver
	fixer   *links.Fixer
	assets  AssetResolver
	layouts map[LayoutKind]LayoutHandler
	fields  map[FieldKind]FieldHandler
}

// NewMapper returns a Mapper with the default dispatch tables.
func NewMapper(resolver *links.Resolver, fixer *links.Fixer, assets AssetResolver) *Mapper {
	if fixer == nil {
		fixer = links.NewFixer(nil, nil)
	}
	return &Mapper{
		links:   resolver,
		fixer:   fixer,
		assets:  assets,
		layouts: defaultLayouts(),
		fields:  defaultFields(),
	}
}

// Context carries the per-resource state of one mapping call.
type Context struct {
	m   *Mapper
	rec anomaly.Recorder
}

// Map decodes properties and maps every layout entry. Decode failures yield no
// blocks and one BLOCKS_DECODE_FAILED entry.
func (m *Mapper) Map(properties string, rec anomaly.Recorder) []blocks.Block {
	if rec == nil {
		rec = anomaly.Discard{}
	}
	layouts, err := DecodeLayouts(properties)
	if err != nil {
		stage := "outer"
		if errors.Is(err, ErrInnerDecode) {
			stage = "inner"
		}
		rec.Record(anomaly.Entry{
			Code:    anomaly.CodeBlocksDecodeFailed,
			Kind:    stage,
			Message: err.Error(),
		})
		return nil
	}

	c := &Context{m: m, rec: rec}
	var out []blocks.Block
	for _, l := range layouts {
		out = append(out, c.mapLayout(l)...)
	}
	return out
}

func (c *Context) mapLayout(l Layout) []blocks.Block {
	h, ok := c.m.layouts[l.Kind]
	if !ok {
		slog.Debug("Unknown layout kind", logfields.Layout(int(l.Kind)))
		c.rec.Record(anomaly.Entry{
			Code:    anomaly.CodeUnknownLayout,
			Kind:    strconv.Itoa(int(l.Kind)),
			Message: "layout kind has no handler, areas merged",
		})
		h = unionLayout
	}
	return h(c, l.Areas, l.Settings)
}

// AreaResult is the mapped content of one area plus the vertical space
// requested by its spacer fields.
type AreaResult struct {
	Blocks []blocks.Block
	Gap    int
}

// MapArea runs the field handlers over fields in order.
func (c *Context) MapArea(fields []Field) AreaResult {
	var res AreaResult
	for _, f := range fields {
		if f.Kind == FieldSpacer {
			res.Gap += spacerHeight(f)
			continue
		}
		res.Blocks = append(res.Blocks, c.MapField(f)...)
	}
	return res
}

// MapField dispatches one field.
func (c *Context) MapField(f Field) []blocks.Block {
	if h, ok := c.m.fields[f.Kind]; ok {
		return h(c, f)
	}
	return unknownField(c, f)
}

// Text resolves internal links, applies the fixups and maps image sources
// through the asset resolver.
func (c *Context) Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if c.m.links != nil {
		s = c.m.links.ResolveText(s, c.rec)
	}
	s = c.m.fixer.Fixup(s)
	return links.RewriteImageSources(s, func(src string) string {
		return c.Asset(src)
	})
}

// URL resolves a link field value.
func (c *Context) URL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if c.m.links != nil {
		raw = c.m.links.ResolveURL(raw, c.rec)
	}
	return c.m.fixer.AbsolutePath(c.m.fixer.Fixup(raw))
}

// Asset resolves a media reference.
func (c *Context) Asset(ref string) string {
	ref = strings.TrimSpace(c.m.fixer.Fixup(ref))
	if ref == "" || c.m.assets == nil {
		return ref
	}
	return c.m.assets.Resolve(ref, c.rec)
}

// sortedAreaNames returns the area names in lexical order.
func sortedAreaNames(areas map[string][]Field) []string {
	names := make([]string, 0, len(areas))
	for n := range areas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Text runs the text pipeline of Context.Text outside a mapping call.
func (m *Mapper) Text(s string, rec anomaly.Recorder) string {
	if rec == nil {
		rec = anomaly.Discard{}
	}
	c := &Context{m: m, rec: rec}
	return c.Text(s)
}

// Asset resolves a media reference through the mapper's asset resolver.
func (m *Mapper) Asset(ref string, rec anomaly.Recorder) string {
	if rec == nil {
		rec = anomaly.Discard{}
	}
	c := &Context{m: m, rec: rec}
	return c.Asset(ref)
}

// URL resolves a link value through the mapper's link resolver.
func (m *Mapper) URL(raw string, rec anomaly.Recorder) string {
	if rec == nil {
		rec = anomaly.Discard{}
	}
	c := &Context{m: m, rec: rec}
	return c.URL(raw)
}
