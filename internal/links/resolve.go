// Package links rewrites the text fields of legacy content: internal resource
// references become site-absolute URLs, editor leftovers are removed and
// relative asset paths are made absolute. It also hosts the heading-to-URI
// matcher used to attach call-to-action links to cards.
package links

import (
	"fmt"
	"regexp"
	"strconv"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/source"
)

// Placeholder replaces references that cannot be resolved.
const Placeholder = "#"

var refPattern = regexp.MustCompile(`\[\[~(\d+)[^\]]*\]\]`)

// Resolver maps [[~id]] references through the resource graph.
type Resolver struct {
	refs source.ResourceMap
}

// NewResolver returns a Resolver over refs.
func NewResolver(refs source.ResourceMap) *Resolver {
	return &Resolver{refs: refs}
}

// Refs exposes the underlying resource graph.
func (r *Resolver) Refs() source.ResourceMap { return r.refs }

// ResolveText replaces every [[~id]] in text with the target's URL. Each
// reference to an unknown id becomes Placeholder and one UNRESOLVED_LINK entry.
func (r *Resolver) ResolveText(text string, rec anomaly.Recorder) string {
	if rec == nil {
		rec = anomaly.Discard{}
	}
	return refPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := refPattern.FindStringSubmatch(m)
		id, err := strconv.ParseInt(sub[1], 10, 64)
		if err == nil {
			if href, ok := r.refs.Href(id); ok {
				return href
			}
		}
		rec.Record(anomaly.Entry{
			Code:    anomaly.CodeUnresolvedLink,
			Kind:    "resource",
			Token:   m,
			Message: fmt.Sprintf("link target %s does not exist", sub[1]),
		})
		return Placeholder
	})
}

// ResolveURL resolves a link field value. Besides embedded references it
// accepts a bare resource id.
func (r *Resolver) ResolveURL(raw string, rec anomaly.Recorder) string {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		return r.ResolveText("[[~"+raw+"]]", rec)
	}
	return r.ResolveText(raw, rec)
}
