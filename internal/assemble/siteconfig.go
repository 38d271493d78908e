package assemble

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/layout"
	"git.home.luguber.info/inful/dumpsite/internal/links"
	"git.home.luguber.info/inful/dumpsite/internal/source"
)

// SiteInput is what the site configuration is derived from.
type SiteInput struct {
	Settings  []source.Setting
	Resources []source.ResourceRecord
	Anchors   map[int64]string
	WebLinks  map[int64]string // resolved target per weblink id
	SiteName  string
}

var (
	contactKeys = []string{"phone", "email", "address", "postcode", "zip", "city", "country", "org", "opening", "fax"}
	socialKeys  = []string{"facebook", "instagram", "linkedin", "twitter", "youtube", "tiktok", "pinterest", "vimeo"}
	nameKeys    = map[string]bool{"site_name": true, "sitename": true, "company_name": true, "company": true}
)

// BuildSiteConfig classifies the client-config settings by key and derives the
// navigation tree.
func BuildSiteConfig(in SiteInput, refs source.ResourceMap, mapper *layout.Mapper, rec anomaly.Recorder) SiteConfig {
	cfg := SiteConfig{
		Name:    strings.TrimSpace(in.SiteName),
		Theme:   Theme{Colors: map[string]string{}, Fonts: map[string]string{}},
		Contact: map[string]string{},
		Social:  map[string]string{},
		Params:  map[string]string{},
	}
	for _, s := range in.Settings {
		key := strings.ToLower(strings.TrimSpace(s.Key))
		val := strings.TrimSpace(s.Effective())
		if key == "" || val == "" {
			continue
		}
		switch {
		case nameKeys[key]:
			if cfg.Name == "" {
				cfg.Name = val
			}
		case strings.Contains(key, "logo"):
			if cfg.Logo == "" {
				cfg.Logo = mapper.Asset(val, rec)
			} else {
				cfg.Params[key] = mapper.Asset(val, rec)
			}
		case strings.Contains(key, "color") || strings.Contains(key, "colour"):
			cfg.Theme.Colors[key] = val
		case strings.Contains(key, "font"):
			cfg.Theme.Fonts[key] = val
		case containsAny(key, socialKeys):
			cfg.Social[key] = val
		case containsAny(key, contactKeys):
			cfg.Contact[key] = val
		default:
			cfg.Params[key] = mapper.Text(val, rec)
		}
	}
	cfg.Navigation = BuildNavigation(in.Resources, refs, in.Anchors, in.WebLinks, rec)
	return cfg
}

// BuildNavigation builds the menu tree of published, visible, live resources.
// Siblings are ordered by menu index, then id. Anchor stubs link to their
// homepage section. Entries whose parent does not exist are attached to the
// root and recorded as UNRESOLVED_PARENT; entries under a hidden parent are
// hidden with it. Weblinks use their already resolved target from webLinks.
func BuildNavigation(resources []source.ResourceRecord, refs source.ResourceMap, anchors, webLinks map[int64]string, rec anomaly.Recorder) []NavItem {
	visible := map[int64]source.ResourceRecord{}
	for _, r := range resources {
		if r.Published && !r.HideMenu && !r.Deleted {
			visible[r.ID] = r
		}
	}

	children := map[int64][]source.ResourceRecord{}
	for _, r := range resources {
		if _, ok := visible[r.ID]; !ok {
			continue
		}
		parent := r.Parent
		if parent != 0 {
			if _, ok := visible[parent]; !ok {
				if _, exists := refs.Lookup(parent); exists {
					continue
				}
				anomaly.ForResource(rec, r.ID, r.Title()).Record(anomaly.Entry{
					Code:    anomaly.CodeUnresolvedParent,
					Token:   fmt.Sprint(parent),
					Message: "parent resource does not exist, attached to navigation root",
				})
				parent = 0
			}
		}
		children[parent] = append(children[parent], r)
	}
	for k := range children {
		list := children[k]
		sort.Slice(list, func(i, j int) bool {
			if list[i].MenuIndex != list[j].MenuIndex {
				return list[i].MenuIndex < list[j].MenuIndex
			}
			return list[i].ID < list[j].ID
		})
	}

	var build func(parent int64, depth int) []NavItem
	build = func(parent int64, depth int) []NavItem {
		if depth > maxNavDepth {
			return nil
		}
		var items []NavItem
		for _, r := range children[parent] {
			items = append(items, NavItem{
				ID:       r.ID,
				Title:    r.NavTitle(),
				URL:      navURL(r, refs, anchors, webLinks),
				Children: build(r.ID, depth+1),
			})
		}
		return items
	}
	return build(0, 0)
}

// maxNavDepth stops runaway recursion on parent cycles.
const maxNavDepth = 16

func navURL(r source.ResourceRecord, refs source.ResourceMap, anchors, webLinks map[int64]string) string {
	if token, ok := anchors[r.ID]; ok {
		return "/#" + token
	}
	if u := webLinks[r.ID]; u != "" && u != links.Placeholder {
		return u
	}
	if href, ok := refs.Href(r.ID); ok {
		return href
	}
	return "/" + r.Path()
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
