// Package blocks defines the CMS-agnostic content block tree that pages are
// built from.
//
// The tree has bounded depth: a section may hold a grid, a grid cell holds only
// leaf blocks. Validate enforces this.
package blocks

// Kind tags a Block.
type Kind string

const (
	KindHero      Kind = "hero"
	KindSection   Kind = "section"
	KindText      Kind = "text"
	KindHeading   Kind = "heading"
	KindImage     Kind = "image"
	KindGallery   Kind = "gallery"
	KindSlider    Kind = "slider"
	KindGrid      Kind = "grid"
	KindDivider   Kind = "divider"
	KindVideo     Kind = "video"
	KindEmbed     Kind = "embed"
	KindAccordion Kind = "accordion"
	KindButtons   Kind = "buttons"
	KindHTML      Kind = "html"
	KindForm      Kind = "form"
	KindFeatures  Kind = "features"
)

// IsContainer reports whether blocks of kind k own child blocks.
func (k Kind) IsContainer() bool {
	return k == KindSection || k == KindGrid
}

// Block is one node of the content tree. Only the fields relevant to Kind are set.
type Block struct {
	Kind    Kind   `yaml:"type" json:"type"`
	ID      string `yaml:"id,omitempty" json:"id,omitempty"`
	Variant string `yaml:"variant,omitempty" json:"variant,omitempty"`

	// heading, hero
	Level    int    `yaml:"level,omitempty" json:"level,omitempty"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Subtitle string `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`

	// text, html, hero body, embed markup
	Content string `yaml:"content,omitempty" json:"content,omitempty"`

	// image
	Src        string `yaml:"src,omitempty" json:"src,omitempty"`
	Alt        string `yaml:"alt,omitempty" json:"alt,omitempty"`
	Caption    string `yaml:"caption,omitempty" json:"caption,omitempty"`
	Width      int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height     int    `yaml:"height,omitempty" json:"height,omitempty"`
	Position   string `yaml:"position,omitempty" json:"position,omitempty"`
	Cover      bool   `yaml:"cover,omitempty" json:"cover,omitempty"`
	Borderless bool   `yaml:"borderless,omitempty" json:"borderless,omitempty"`

	// video, embed, form
	URL    string `yaml:"url,omitempty" json:"url,omitempty"`
	FormID string `yaml:"form,omitempty" json:"form,omitempty"`

	// hero background
	Background string `yaml:"background,omitempty" json:"background,omitempty"`

	// gallery column count
	Columns int `yaml:"columns,omitempty" json:"columns,omitempty"`

	// repeaters
	Items   []Item `yaml:"items,omitempty" json:"items,omitempty"`
	Buttons []Link `yaml:"buttons,omitempty" json:"buttons,omitempty"`
	Link    *Link  `yaml:"link,omitempty" json:"link,omitempty"`

	// containers
	Style    *Style    `yaml:"style,omitempty" json:"style,omitempty"`
	Children []Block   `yaml:"children,omitempty" json:"children,omitempty"`
	Cells    [][]Block `yaml:"cells,omitempty" json:"cells,omitempty"`
	Widths   []int     `yaml:"widths,omitempty" json:"widths,omitempty"`
}

// Item is one row of a repeater block (slide, accordion panel, card, feature).
type Item struct {
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Subtitle string `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Content  string `yaml:"content,omitempty" json:"content,omitempty"`
	Image    string `yaml:"image,omitempty" json:"image,omitempty"`
	Icon     string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Email    string `yaml:"email,omitempty" json:"email,omitempty"`
	Phone    string `yaml:"phone,omitempty" json:"phone,omitempty"`
	Link     *Link  `yaml:"link,omitempty" json:"link,omitempty"`
}

// Link is a call to action.
type Link struct {
	Label  string `yaml:"label,omitempty" json:"label,omitempty"`
	URL    string `yaml:"url" json:"url"`
	Style  string `yaml:"style,omitempty" json:"style,omitempty"`
	NewTab bool   `yaml:"new_tab,omitempty" json:"new_tab,omitempty"`
}

// Style carries the presentation settings of a section.
type Style struct {
	Align           string `yaml:"align,omitempty" json:"align,omitempty"`
	Spacing         string `yaml:"spacing,omitempty" json:"spacing,omitempty"`
	Gap             int    `yaml:"gap,omitempty" json:"gap,omitempty"`
	Background      string `yaml:"background,omitempty" json:"background,omitempty"`
	TextColor       string `yaml:"text_color,omitempty" json:"text_color,omitempty"`
	BackgroundImage string `yaml:"background_image,omitempty" json:"background_image,omitempty"`
	Class           string `yaml:"class,omitempty" json:"class,omitempty"`
}

// IsZero reports whether no setting is present.
func (s *Style) IsZero() bool {
	return s == nil || *s == Style{}
}

// Text returns a text block holding html.
func Text(html string) Block {
	return Block{Kind: KindText, Content: html}
}

// Heading returns a heading block.
func Heading(level int, text string) Block {
	return Block{Kind: KindHeading, Level: level, Title: text}
}

// HTML returns a raw markup block.
func HTML(markup string) Block {
	return Block{Kind: KindHTML, Content: markup}
}

// Section wraps children in a section.
func Section(style *Style, children ...Block) Block {
	if style.IsZero() {
		style = nil
	}
	return Block{Kind: KindSection, Style: style, Children: children}
}

// Grid arranges cells side by side.
func Grid(widths []int, cells ...[]Block) Block {
	return Block{Kind: KindGrid, Cells: cells, Widths: widths}
}

// OnlyImages reports whether cell is non-empty and holds nothing but image blocks.
func OnlyImages(cell []Block) bool {
	if len(cell) == 0 {
		return false
	}
	for _, b := range cell {
		if b.Kind != KindImage {
			return false
		}
	}
	return true
}

// Walk visits blocks depth-first in document order. Returning false from fn
// stops descent into that block's children.
func Walk(list []Block, fn func(b *Block) bool) {
	for i := range list {
		b := &list[i]
		if !fn(b) {
			continue
		}
		Walk(b.Children, fn)
		for j := range b.Cells {
			Walk(b.Cells[j], fn)
		}
	}
}
