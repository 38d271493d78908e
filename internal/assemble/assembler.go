// Package assemble turns extracted resources into the output document set:
// one page per live resource, the anchor post-pass on the homepage, the site
// configuration with its navigation tree, and the redirect table.
package assemble

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/blocks"
	"git.home.luguber.info/inful/dumpsite/internal/layout"
	"git.home.luguber.info/inful/dumpsite/internal/links"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
	"git.home.luguber.info/inful/dumpsite/internal/source"
)

// HomepagePath is the output path of the homepage.
const HomepagePath = "index"

// Input is everything extracted from one dump.
type Input struct {
	Resources      []source.ResourceRecord
	Settings       []source.Setting
	Redirects      []source.RedirectRow
	SystemSettings []source.SystemSetting
}

// Assembler builds document sets. It holds no per-run state.
type Assembler struct {
	mapper *layout.Mapper
	refs   source.ResourceMap
}

// New returns an Assembler. When refs carries no homepage id, Assemble detects
// the homepage itself.
func New(mapper *layout.Mapper, refs source.ResourceMap) *Assembler {
	return &Assembler{mapper: mapper, refs: refs}
}

// Assemble maps every live resource and derives the site-wide documents.
// Per-resource failures are recorded as RESOURCE_FAILED and skipped.
func (a *Assembler) Assemble(in Input, rec anomaly.Recorder) DocumentSet {
	if rec == nil {
		rec = anomaly.Discard{}
	}
	records := make([]source.ResourceRecord, len(in.Resources))
	copy(records, in.Resources)
	sort.SliceStable(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	homeID := a.refs.HomeID()
	if homeID == 0 {
		siteStart, _ := strconv.ParseInt(source.SystemSettingValue(in.SystemSettings, "site_start"), 10, 64)
		homeID = source.DetectHomepage(records, siteStart)
	}

	var set DocumentSet
	var weblinks []Redirect
	// Weblink targets are resolved once and shared by redirects and navigation.
	targets := map[int64]string{}
	for _, r := range records {
		if r.Deleted {
			continue
		}
		scoped := anomaly.ForResource(rec, r.ID, r.Title())
		if r.Kind() == source.KindWebLink {
			targets[r.ID] = a.mapper.URL(strings.TrimSpace(r.Content), scoped)
			if rd, ok := weblink(r, targets[r.ID]); ok {
				weblinks = append(weblinks, rd)
			}
			continue
		}
		p, err := a.page(r, homeID != 0 && r.ID == homeID, scoped)
		if err != nil {
			slog.Warn("Resource skipped", logfields.ResourceID(r.ID), logfields.Resource(r.Title()), logfields.Error(err))
			scoped.Record(anomaly.Entry{
				Code:     anomaly.CodeResourceFailed,
				Severity: anomaly.SeverityError,
				Message:  err.Error(),
			})
			continue
		}
		set.Pages = append(set.Pages, p)
	}

	set.Anchors = ApplyAnchors(set.Pages)
	set.Site = BuildSiteConfig(SiteInput{
		Settings:  in.Settings,
		Resources: records,
		Anchors:   set.Anchors,
		WebLinks:  targets,
		SiteName:  source.SystemSettingValue(in.SystemSettings, "site_name"),
	}, a.refs.WithHome(homeID), a.mapper, rec)
	set.Redirects = BuildRedirects(in.Redirects, weblinks, a.mapper, rec)
	return set
}

// page maps one resource. Panics inside the mapper are returned as errors.
func (a *Assembler) page(r source.ResourceRecord, home bool, rec anomaly.Recorder) (p Page, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("mapping panicked: %v", v)
		}
	}()

	p = Page{
		ResourceID:  r.ID,
		Path:        r.Path(),
		Title:       r.Title(),
		LongTitle:   strings.TrimSpace(r.LongTitle),
		Description: firstNonEmpty(strings.TrimSpace(r.Description), links.PlainText(r.IntroText)),
		MenuIndex:   r.MenuIndex,
		Parent:      r.Parent,
		HideMenu:    r.HideMenu,
		Draft:       !r.Published,
		IsHomepage:  home,
	}
	if t := strings.TrimSpace(r.MenuTitle); t != "" && t != p.Title {
		p.MenuTitle = t
	}
	switch {
	case home:
		p.Path = HomepagePath
	case p.Path == "":
		rec.Record(anomaly.Entry{
			Code:    anomaly.CodeMissingPath,
			Message: "resource has neither uri nor alias, id used as path",
		})
		p.Path = strconv.FormatInt(r.ID, 10)
	}

	if r.Kind() == source.KindStaticFile {
		p.StaticFile = a.mapper.Asset(r.Content, rec)
		return p, nil
	}

	p.Blocks = a.mapper.Map(r.Properties, rec)
	if len(p.Blocks) == 0 {
		p.Blocks = a.fallback(r, rec)
	}
	if err := blocks.Validate(p.Blocks); err != nil {
		return Page{}, err
	}
	return p, nil
}

// fallback wraps the legacy content field in one text block.
func (a *Assembler) fallback(r source.ResourceRecord, rec anomaly.Recorder) []blocks.Block {
	text := strings.TrimSpace(links.StripTemplateTags(a.mapper.Text(r.Content, rec)))
	if text == "" {
		return nil
	}
	return []blocks.Block{blocks.Text(text)}
}

// weblink turns a link resource with its resolved target into a redirect
// from its own path. Unresolved targets produce no redirect.
func weblink(r source.ResourceRecord, to string) (Redirect, bool) {
	from := r.Path()
	if from == "" || to == "" || to == links.Placeholder {
		return Redirect{}, false
	}
	return Redirect{From: "/" + from, To: to, Status: StatusMovedPermanently}, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
