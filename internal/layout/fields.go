package layout

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/blocks"
	"git.home.luguber.info/inful/dumpsite/internal/links"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

func defaultFields() map[FieldKind]FieldHandler {
	return map[FieldKind]FieldHandler{
		FieldHeading:           headingField,
		FieldRichText:          richTextField,
		FieldImage:             imageField,
		FieldGallery:           galleryField,
		FieldSlider:            sliderField,
		FieldAccordion:         accordionField,
		FieldButtonList:        buttonListField(""),
		FieldVideo:             videoField,
		FieldIframe:            htmlField,
		FieldCode:              htmlField,
		FieldRawHTML:           htmlField,
		FieldSpacer:            func(*Context, Field) []blocks.Block { return nil },
		FieldDivider:           dividerField,
		FieldForm:              formField,
		FieldFeatureList:       featureListField,
		FieldFAQ:               faqField,
		FieldExpertCard:        expertField("expert"),
		FieldExpertCardCompact: expertField("expert-compact"),
		FieldTextarea:          textareaField,
		FieldButton:            buttonField,
		FieldFileDownload:      fileDownloadField,
		FieldMap:               mapField,
		FieldTitleText:         titleTextField,
		FieldLinkList:          buttonListField("links"),
		FieldTable:             tableField,
	}
}

func one(b blocks.Block) []blocks.Block { return []blocks.Block{b} }

func headingField(c *Context, f Field) []blocks.Block {
	text := links.PlainText(c.Text(f.Value()))
	if text == "" {
		return nil
	}
	return one(blocks.Heading(headingLevel(f, 2), text))
}

// richTextField maps editor markup to a text block. A leading image wrapped in
// a link, or failing that a heading matching a page path, becomes the card link.
func richTextField(c *Context, f Field) []blocks.Block {
	content := c.Text(f.Value())
	if strings.TrimSpace(content) == "" {
		return nil
	}
	b := blocks.Text(content)
	if href, ok := links.CardLink(content); ok {
		b.Link = &blocks.Link{URL: href}
	} else if c.m.links != nil {
		if href, ok := links.MatchHeadingURI(content, c.m.links.Refs()); ok {
			b.Link = &blocks.Link{URL: href}
		}
	}
	return one(b)
}

func imageField(c *Context, f Field) []blocks.Block {
	src := c.Asset(f.Str("url", "value", "src"))
	if src == "" {
		return nil
	}
	s := f.Settings()
	return one(blocks.Block{
		Kind:       blocks.KindImage,
		Src:        src,
		Alt:        f.Str("title", "alt"),
		Caption:    f.Str("caption", "description"),
		Width:      f.Int("width"),
		Height:     f.Int("height"),
		Position:   firstNonEmpty(f.Str("position", "object_position"), s.Str("position", "object_position")),
		Cover:      s.Bool("cover", "object_fit_cover"),
		Borderless: s.Bool("borderless", "no_border"),
		Link:       c.link(f.Str("link"), ""),
	})
}

func galleryField(c *Context, f Field) []blocks.Block {
	var items []blocks.Item
	for _, r := range f.Rows() {
		img := c.Asset(r.Text("url", "image", "src"))
		if img == "" {
			continue
		}
		items = append(items, blocks.Item{Image: img, Title: r.Text("title", "alt"), Content: r.Text("caption", "description")})
	}
	if len(items) == 0 {
		return nil
	}
	return one(blocks.Block{Kind: blocks.KindGallery, Items: items, Columns: settingsInt(f.Settings(), 3, "columns", "cols")})
}

func sliderField(c *Context, f Field) []blocks.Block {
	var items []blocks.Item
	for _, r := range f.Rows() {
		it := blocks.Item{
			Title:   links.PlainText(c.Text(r.Text("title", "heading"))),
			Content: c.Text(r.Text("content", "text", "description")),
			Image:   c.Asset(r.Text("image", "url", "src")),
			Link:    c.link(r.Text("link", "button_link"), r.Text("button", "link_text", "button_text")),
		}
		if it != (blocks.Item{}) {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return one(blocks.Block{Kind: blocks.KindSlider, Items: items})
}

func accordionField(c *Context, f Field) []blocks.Block {
	items := c.panels(f, []string{"title", "heading"}, []string{"content", "text", "body"})
	if len(items) == 0 {
		return nil
	}
	return one(blocks.Block{Kind: blocks.KindAccordion, Items: items})
}

func faqField(c *Context, f Field) []blocks.Block {
	items := c.panels(f, []string{"question", "title"}, []string{"answer", "content", "text"})
	if len(items) == 0 {
		return nil
	}
	return one(blocks.Block{Kind: blocks.KindAccordion, Variant: "faq", Items: items})
}

func (c *Context) panels(f Field, titleKeys, bodyKeys []string) []blocks.Item {
	var items []blocks.Item
	for _, r := range f.Rows() {
		title := links.PlainText(c.Text(r.Text(titleKeys...)))
		body := c.Text(r.Text(bodyKeys...))
		if title == "" && body == "" {
			continue
		}
		items = append(items, blocks.Item{Title: title, Content: body})
	}
	return items
}

func buttonListField(variant string) FieldHandler {
	return func(c *Context, f Field) []blocks.Block {
		var btns []blocks.Link
		for _, r := range f.Rows() {
			if l := c.link(r.Text("link", "url", "href"), r.Text("label", "title", "text")); l != nil {
				l.Style = r.Text("style", "type")
				l.NewTab = Settings(r).Bool("new_tab", "target_blank")
				btns = append(btns, *l)
			}
		}
		if len(btns) == 0 {
			return nil
		}
		return one(blocks.Block{Kind: blocks.KindButtons, Variant: variant, Buttons: btns})
	}
}

func buttonField(c *Context, f Field) []blocks.Block {
	l := c.link(f.Str("link", "url", "href"), f.Str("label", "title", "value"))
	if l == nil {
		return nil
	}
	l.Style = f.Str("style", "type")
	l.NewTab = f.Settings().Bool("new_tab", "target_blank")
	return one(blocks.Block{Kind: blocks.KindButtons, Buttons: []blocks.Link{*l}})
}

func fileDownloadField(c *Context, f Field) []blocks.Block {
	file := c.Asset(f.Str("file", "url", "value"))
	if file == "" {
		return nil
	}
	label := f.Str("title", "label")
	if label == "" {
		label = file[strings.LastIndex(file, "/")+1:]
	}
	return one(blocks.Block{
		Kind:    blocks.KindButtons,
		Variant: "download",
		Buttons: []blocks.Link{{Label: label, URL: file, Style: "download"}},
	})
}

func videoField(c *Context, f Field) []blocks.Block {
	url := f.Str("url", "value", "src")
	if url == "" {
		return nil
	}
	if !strings.Contains(url, "://") {
		url = c.Asset(url)
	}
	return one(blocks.Block{Kind: blocks.KindVideo, URL: url, Title: f.Str("title"), Src: c.Asset(f.Str("poster"))})
}

// htmlField passes raw, code and iframe markup through with the fixups applied.
func htmlField(c *Context, f Field) []blocks.Block {
	markup := c.Text(f.Value())
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	return one(blocks.HTML(markup))
}

func mapField(c *Context, f Field) []blocks.Block {
	v := strings.TrimSpace(f.Str("value", "url", "embed"))
	if v == "" {
		return nil
	}
	if strings.HasPrefix(v, "<") {
		return one(blocks.Block{Kind: blocks.KindEmbed, Variant: "map", Content: c.Text(v)})
	}
	return one(blocks.Block{Kind: blocks.KindEmbed, Variant: "map", URL: v})
}

func dividerField(_ *Context, f Field) []blocks.Block {
	return one(blocks.Block{Kind: blocks.KindDivider, Variant: f.Str("style")})
}

func formField(_ *Context, f Field) []blocks.Block {
	id := f.Str("form", "value", "id")
	if id == "" {
		id = "contact"
	}
	return one(blocks.Block{Kind: blocks.KindForm, FormID: id, Title: f.Str("title")})
}

func featureListField(c *Context, f Field) []blocks.Block {
	var items []blocks.Item
	for _, r := range f.Rows() {
		it := blocks.Item{
			Icon:    r.Text("icon"),
			Title:   links.PlainText(c.Text(r.Text("title", "heading"))),
			Content: c.Text(r.Text("content", "text", "description")),
			Image:   c.Asset(r.Text("image")),
			Link:    c.link(r.Text("link"), ""),
		}
		if it.Title != "" || it.Content != "" {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return one(blocks.Block{Kind: blocks.KindFeatures, Items: items})
}

func expertField(variant string) FieldHandler {
	return func(c *Context, f Field) []blocks.Block {
		rows := f.Rows()
		if len(rows) == 0 {
			rows = []Row{Row(f.data)}
		}
		var items []blocks.Item
		for _, r := range rows {
			it := blocks.Item{
				Title:    r.Text("name", "title"),
				Subtitle: r.Text("role", "position", "subtitle"),
				Image:    c.Asset(r.Text("image", "photo")),
				Email:    r.Text("email"),
				Phone:    r.Text("phone", "mobile"),
			}
			if variant == "expert" {
				it.Content = c.Text(r.Text("content", "bio", "text"))
			}
			if it.Title != "" {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			return nil
		}
		return one(blocks.Block{Kind: blocks.KindFeatures, Variant: variant, Items: items})
	}
}

// textareaField wraps plain text in paragraphs; blank lines split paragraphs
// and single newlines become line breaks.
func textareaField(c *Context, f Field) []blocks.Block {
	v := strings.TrimSpace(strings.ReplaceAll(f.Value(), "\r\n", "\n"))
	if v == "" {
		return nil
	}
	var b strings.Builder
	for _, para := range strings.Split(v, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return one(blocks.Text(c.Text(b.String())))
}

// titleTextField expands each row into a heading followed by its text.
func titleTextField(c *Context, f Field) []blocks.Block {
	var out []blocks.Block
	level := headingLevel(f, 3)
	for _, r := range f.Rows() {
		if t := links.PlainText(c.Text(r.Text("title", "heading"))); t != "" {
			out = append(out, blocks.Heading(level, t))
		}
		if body := c.Text(r.Text("text", "content", "body")); strings.TrimSpace(body) != "" {
			out = append(out, blocks.Text(body))
		}
	}
	return out
}

// tableField renders rows of cells as an HTML table. The first row is a
// header row unless the field settings turn it off.
func tableField(c *Context, f Field) []blocks.Block {
	grid := tableCells(f)
	if len(grid) == 0 {
		return nil
	}
	header := !f.Settings().Bool("no_header", "plain")
	var b strings.Builder
	b.WriteString("<table>")
	for i, row := range grid {
		tag := "td"
		if i == 0 && header {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<%s>%s</%s>", tag, c.Text(cell), tag)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return one(blocks.Block{Kind: blocks.KindHTML, Variant: "table", Content: b.String()})
}

func tableCells(f Field) [][]string {
	var raw []any
	for _, key := range []string{"value", "rows", "table"} {
		if list, ok := f.data[key].([]any); ok {
			raw = list
			break
		}
	}
	var out [][]string
	for _, r := range raw {
		var cells []string
		switch row := r.(type) {
		case []any:
			for _, cell := range row {
				cells = append(cells, toString(cell))
			}
		case map[string]any:
			for _, cell := range asSlice(row["cells"]) {
				cells = append(cells, toString(cell))
			}
		}
		if len(cells) > 0 {
			out = append(out, cells)
		}
	}
	return out
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

// unknownField degrades an unmapped kind: scalar values become text, repeater
// values are dropped.
func unknownField(c *Context, f Field) []blocks.Block {
	slog.Debug("Unknown field kind", logfields.Field(int(f.Kind)))
	if f.IsList() {
		c.rec.Record(anomaly.Entry{
			Code:    anomaly.CodeUnknownRepeater,
			Kind:    strconv.Itoa(int(f.Kind)),
			Message: "repeater field kind has no handler, dropped",
		})
		return nil
	}
	c.rec.Record(anomaly.Entry{
		Code:    anomaly.CodeUnknownField,
		Kind:    strconv.Itoa(int(f.Kind)),
		Message: "field kind has no handler, value kept as text",
	})
	content := c.Text(f.Value())
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return one(blocks.Text(content))
}

// link builds a call to action, nil when url is empty.
func (c *Context) link(url, label string) *blocks.Link {
	u := c.URL(url)
	if u == "" {
		return nil
	}
	return &blocks.Link{Label: strings.TrimSpace(label), URL: u}
}

func spacerHeight(f Field) int {
	if n := f.Int("height", "value", "size"); n > 0 {
		return n
	}
	return toInt(f.Settings()["height"])
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
