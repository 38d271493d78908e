package assemble

import (
	"strings"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/layout"
	"git.home.luguber.info/inful/dumpsite/internal/links"
	"git.home.luguber.info/inful/dumpsite/internal/source"
)

// StatusMovedPermanently is the status of every emitted redirect.
const StatusMovedPermanently = 301

// BuildRedirects keeps active rules, normalizes paths to start with "/",
// resolves [[~id]] targets and appends the weblink redirects. The first rule
// for a path wins; rules whose target did not resolve are dropped.
func BuildRedirects(rows []source.RedirectRow, weblinks []Redirect, mapper *layout.Mapper, rec anomaly.Recorder) []Redirect {
	seen := map[string]bool{}
	var out []Redirect
	add := func(r Redirect) {
		if r.From == "" || r.To == "" || r.To == links.Placeholder || r.From == r.To || seen[r.From] {
			return
		}
		seen[r.From] = true
		out = append(out, r)
	}

	for _, row := range rows {
		if !row.Active {
			continue
		}
		from := normalizeRedirectPath(row.Pattern)
		to := mapper.URL(strings.TrimSpace(row.Target), rec)
		if to != "" && !strings.HasPrefix(to, "/") && !strings.Contains(to, "://") && to != links.Placeholder {
			to = "/" + to
		}
		add(Redirect{From: from, To: to, Status: StatusMovedPermanently})
	}
	for _, w := range weblinks {
		add(w)
	}
	return out
}

// normalizeRedirectPath strips regex anchors and ensures a leading "/".
func normalizeRedirectPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "^")
	p = strings.TrimSuffix(p, "$")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
