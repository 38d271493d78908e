package assemble

import "git.home.luguber.info/inful/dumpsite/internal/blocks"

// Page is one output document.
type Page struct {
	ResourceID  int64          `yaml:"resource_id" json:"resource_id"`
	Path        string         `yaml:"path" json:"path"`
	Title       string         `yaml:"title" json:"title"`
	LongTitle   string         `yaml:"long_title,omitempty" json:"long_title,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	MenuTitle   string         `yaml:"menu_title,omitempty" json:"menu_title,omitempty"`
	MenuIndex   int64          `yaml:"weight" json:"weight"`
	Parent      int64          `yaml:"parent,omitempty" json:"parent,omitempty"`
	HideMenu    bool           `yaml:"hide_menu,omitempty" json:"hide_menu,omitempty"`
	Draft       bool           `yaml:"draft,omitempty" json:"draft,omitempty"`
	IsHomepage  bool           `yaml:"is_homepage,omitempty" json:"is_homepage,omitempty"`
	StaticFile  string         `yaml:"static_file,omitempty" json:"static_file,omitempty"`
	Blocks      []blocks.Block `yaml:"blocks,omitempty" json:"blocks,omitempty"`
}

// SiteConfig is the singleton site-wide document.
type SiteConfig struct {
	Name       string            `yaml:"name" json:"name"`
	Logo       string            `yaml:"logo,omitempty" json:"logo,omitempty"`
	Theme      Theme             `yaml:"theme" json:"theme"`
	Contact    map[string]string `yaml:"contact,omitempty" json:"contact,omitempty"`
	Social     map[string]string `yaml:"social,omitempty" json:"social,omitempty"`
	Params     map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	Navigation []NavItem         `yaml:"navigation" json:"navigation"`
}

// Theme holds the colors and fonts configured in the CMS.
type Theme struct {
	Colors map[string]string `yaml:"colors,omitempty" json:"colors,omitempty"`
	Fonts  map[string]string `yaml:"fonts,omitempty" json:"fonts,omitempty"`
}

// NavItem is one navigation entry.
type NavItem struct {
	ID       int64     `yaml:"id" json:"id"`
	Title    string    `yaml:"title" json:"title"`
	URL      string    `yaml:"url" json:"url"`
	Children []NavItem `yaml:"children,omitempty" json:"children,omitempty"`
}

// Redirect maps an old path to its replacement.
type Redirect struct {
	From   string `yaml:"from" json:"from"`
	To     string `yaml:"to" json:"to"`
	Status int    `yaml:"status" json:"status"`
}

// DocumentSet is the complete result of one assembly.
type DocumentSet struct {
	Pages     []Page
	Site      SiteConfig
	Redirects []Redirect
	// Anchors maps stub page ids to the homepage anchor they route to.
	Anchors map[int64]string
}

// Homepage returns the homepage, nil when none was emitted.
func (d *DocumentSet) Homepage() *Page {
	for i := range d.Pages {
		if d.Pages[i].IsHomepage {
			return &d.Pages[i]
		}
	}
	return nil
}
