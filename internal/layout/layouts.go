package layout

import (
	"git.home.luguber.info/inful/dumpsite/internal/blocks"
)

// GalleryCollapseMinColumns is the column count from which an all-image grid
// is emitted as a gallery instead.
const GalleryCollapseMinColumns = 3

func defaultLayouts() map[LayoutKind]LayoutHandler {
	return map[LayoutKind]LayoutHandler{
		LayoutOneColumn:     columns("", nil, "main"),
		LayoutTwoColumn:     columns("", []int{50, 50}, "left", "right"),
		LayoutThreeColumn:   columns("", nil, "left", "center", "right"),
		LayoutHero:          heroLayout,
		LayoutFourColumn:    columns("", nil, "col1", "col2", "col3", "col4"),
		LayoutSidebarLeft:   columns("sidebar-left", []int{33, 67}, "sidebar", "main"),
		LayoutSidebarRight:  columns("sidebar-right", []int{67, 33}, "main", "sidebar"),
		LayoutFullWidth:     columns("full-width", nil, "main"),
		LayoutCallToAction:  columns("cta", nil, "main"),
		LayoutTwoColumn6040: columns("", []int{60, 40}, "left", "right"),
		LayoutTwoColumn4060: columns("", []int{40, 60}, "left", "right"),
		LayoutBoxed:         columns("boxed", nil, "main"),
		LayoutCards:         columns("cards", nil, "card1", "card2", "card3"),
		LayoutContact:       columns("contact", []int{50, 50}, "info", "form"),
		LayoutGallery:       galleryLayout,
		LayoutFeatures:      columns("features", nil, "main"),
		LayoutWrapper:       columns("wrapper", nil, "main"),
	}
}

// columns builds a handler for a layout with the given areas. One area maps to
// a flat section, several to a section holding a grid.
func columns(class string, widths []int, names ...string) LayoutHandler {
	return func(c *Context, areas map[string][]Field, settings Settings) []blocks.Block {
		gap := 0
		cells := make([][]blocks.Block, 0, len(names))
		empty := true
		for _, n := range names {
			res := c.MapArea(areas[n])
			gap += res.Gap
			cells = append(cells, res.Blocks)
			if len(res.Blocks) > 0 {
				empty = false
			}
		}
		if empty {
			return nil
		}
		style := c.sectionStyle(settings, class, gap)

		if len(cells) == 1 {
			return []blocks.Block{blocks.Section(style, cells[0]...)}
		}
		if IsImageGrid(cells) {
			return []blocks.Block{collapseToGallery(cells, style)}
		}
		return []blocks.Block{blocks.Section(style, blocks.Grid(widths, cells...))}
	}
}

// IsImageGrid reports whether cells should be rendered as a gallery: at least
// GalleryCollapseMinColumns cells, each holding only images.
func IsImageGrid(cells [][]blocks.Block) bool {
	if len(cells) < GalleryCollapseMinColumns {
		return false
	}
	for _, cell := range cells {
		if !blocks.OnlyImages(cell) {
			return false
		}
	}
	return true
}

func collapseToGallery(cells [][]blocks.Block, style *blocks.Style) blocks.Block {
	g := blocks.Block{Kind: blocks.KindGallery, Columns: len(cells)}
	if !style.IsZero() {
		g.Style = style
	}
	for _, cell := range cells {
		for _, img := range cell {
			g.Items = append(g.Items, blocks.Item{Image: img.Src, Title: img.Alt, Content: img.Caption})
		}
	}
	return g
}

// galleryLayout flattens every image of its area into one gallery.
func galleryLayout(c *Context, areas map[string][]Field, settings Settings) []blocks.Block {
	res := c.MapArea(areas["main"])
	g := blocks.Block{Kind: blocks.KindGallery, Columns: settingsInt(settings, 3, "columns", "cols")}
	var rest []blocks.Block
	for _, b := range res.Blocks {
		switch b.Kind {
		case blocks.KindImage:
			g.Items = append(g.Items, blocks.Item{Image: b.Src, Title: b.Alt, Content: b.Caption})
		case blocks.KindGallery:
			g.Items = append(g.Items, b.Items...)
		default:
			rest = append(rest, b)
		}
	}
	var children []blocks.Block
	children = append(children, rest...)
	if len(g.Items) > 0 {
		children = append(children, g)
	}
	if len(children) == 0 {
		return nil
	}
	return []blocks.Block{blocks.Section(c.sectionStyle(settings, "gallery", res.Gap), children...)}
}

// unionLayout maps every declared area in name order into one flat section.
func unionLayout(c *Context, areas map[string][]Field, settings Settings) []blocks.Block {
	var children []blocks.Block
	gap := 0
	for _, n := range sortedAreaNames(areas) {
		res := c.MapArea(areas[n])
		gap += res.Gap
		children = append(children, res.Blocks...)
	}
	if len(children) == 0 {
		return nil
	}
	return []blocks.Block{blocks.Section(c.sectionStyle(settings, "", gap), children...)}
}

func (c *Context) sectionStyle(s Settings, class string, gap int) *blocks.Style {
	st := plainStyle(s, class, gap)
	if img := s.Str("background_image", "bg_image"); img != "" {
		st.BackgroundImage = c.Asset(img)
	}
	return st
}

// plainStyle reads the style settings that need no asset resolution.
func plainStyle(s Settings, class string, gap int) *blocks.Style {
	return &blocks.Style{
		Align:      s.Str("alignment", "align", "text_align"),
		Spacing:    s.Str("spacing", "padding", "margin"),
		Gap:        gap,
		Background: s.Str("background_color", "bg_color", "background"),
		TextColor:  s.Str("text_color", "color"),
		Class:      joinClass(class, s.Str("css_class", "class")),
	}
}

func joinClass(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func settingsInt(s Settings, def int, keys ...string) int {
	if n := Row(s).Int(keys...); n > 0 {
		return n
	}
	return def
}
