package assemble

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/dumpsite/internal/blocks"
	"git.home.luguber.info/inful/dumpsite/internal/links"
)

var anchorToken = regexp.MustCompile(`^#([A-Za-z0-9][A-Za-z0-9_-]*)$`)

// AnchorToken returns the token of a stub page: a page whose only block is a
// text block holding nothing but "#token".
func AnchorToken(p Page) (string, bool) {
	if len(p.Blocks) != 1 || p.Blocks[0].Kind != blocks.KindText {
		return "", false
	}
	m := anchorToken.FindStringSubmatch(links.PlainText(p.Blocks[0].Content))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ApplyAnchors runs after every page is mapped. For each stub page it sets the
// token as the id of the first homepage section holding a matching heading.
// Stub pages are read, never modified. It returns stub id -> token for every
// stub that found its section.
func ApplyAnchors(pages []Page) map[int64]string {
	var home *Page
	for i := range pages {
		if pages[i].IsHomepage {
			home = &pages[i]
			break
		}
	}
	out := map[int64]string{}
	if home == nil {
		return out
	}
	for _, p := range pages {
		if p.IsHomepage {
			continue
		}
		token, ok := AnchorToken(p)
		if !ok {
			continue
		}
		if attachAnchor(home.Blocks, token) {
			out[p.ResourceID] = token
		}
	}
	return out
}

// attachAnchor searches top-level sections, one level into their children, in
// document order.
func attachAnchor(list []blocks.Block, token string) bool {
	for i := range list {
		sec := &list[i]
		if sec.Kind != blocks.KindSection {
			continue
		}
		for _, child := range sec.Children {
			if child.Kind != blocks.KindHeading || !headingMatches(child.Title, token) {
				continue
			}
			if sec.ID != "" && sec.ID != token {
				break
			}
			sec.ID = token
			return true
		}
	}
	return false
}

func headingMatches(text, token string) bool {
	cleaned := strings.TrimSpace(links.PlainText(text))
	if strings.EqualFold(cleaned, token) {
		return true
	}
	return strings.EqualFold(strings.Join(strings.Fields(cleaned), "-"), token)
}
