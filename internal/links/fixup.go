package links

import (
	"regexp"
	"strings"
)

// DefaultDeadMarkers are editor placeholders that expand to nothing useful
// outside the legacy CMS.
var DefaultDeadMarkers = []string{"[[++site_url]]"}

// DefaultAssetPrefixes are the relative path roots promoted to absolute URLs.
var DefaultAssetPrefixes = []string{"assets/", "images/", "uploads/"}

var (
	linkAttrPattern    = regexp.MustCompile(`(?i)(\s(?:src|href)\s*=\s*)(["'])([^"']*)(["'])`)
	iframeTagPattern   = regexp.MustCompile(`(?is)<iframe\b[^>]*>`)
	widthAttrPattern   = regexp.MustCompile(`(?i)(\s)width\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	templateTagPattern = regexp.MustCompile(`\[\[[^\[\]]*\]\]`)
)

// Fixer applies the text fixups every text-bearing field goes through.
type Fixer struct {
	deadMarkers   []string
	assetPrefixes []string
}

// NewFixer returns a Fixer. Nil slices select the defaults.
func NewFixer(deadMarkers, assetPrefixes []string) *Fixer {
	if deadMarkers == nil {
		deadMarkers = DefaultDeadMarkers
	}
	if assetPrefixes == nil {
		assetPrefixes = DefaultAssetPrefixes
	}
	return &Fixer{deadMarkers: deadMarkers, assetPrefixes: assetPrefixes}
}

// Fixup strips dead markers, makes relative asset src/href values absolute and
// forces iframe widths to 100%.
func (f *Fixer) Fixup(markup string) string {
	for _, m := range f.deadMarkers {
		if m != "" {
			markup = strings.ReplaceAll(markup, m, "")
		}
	}
	markup = linkAttrPattern.ReplaceAllStringFunc(markup, func(m string) string {
		sub := linkAttrPattern.FindStringSubmatch(m)
		return sub[1] + sub[2] + f.AbsolutePath(sub[3]) + sub[4]
	})
	return iframeTagPattern.ReplaceAllStringFunc(markup, func(tag string) string {
		return widthAttrPattern.ReplaceAllString(tag, `${1}width="100%"`)
	})
}

// AbsolutePath prefixes p with "/" when it starts with a known asset root.
func (f *Fixer) AbsolutePath(p string) string {
	for _, prefix := range f.assetPrefixes {
		if strings.HasPrefix(p, prefix) {
			return "/" + p
		}
	}
	return p
}

// StripTemplateTags removes every remaining [[...]] tag, nested ones included.
func StripTemplateTags(text string) string {
	for i := 0; i < 8; i++ {
		next := templateTagPattern.ReplaceAllString(text, "")
		if next == text {
			break
		}
		text = next
	}
	return text
}

var imgSrcPattern = regexp.MustCompile(`(?i)(<img\b[^>]*?\ssrc\s*=\s*)(["'])([^"']*)(["'])`)

// RewriteImageSources replaces the src of every <img> in markup with fn(src).
func RewriteImageSources(markup string, fn func(src string) string) string {
	return imgSrcPattern.ReplaceAllStringFunc(markup, func(m string) string {
		sub := imgSrcPattern.FindStringSubmatch(m)
		return sub[1] + sub[2] + fn(sub[3]) + sub[4]
	})
}
