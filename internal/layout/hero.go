package layout

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/dumpsite/internal/blocks"
	"git.home.luguber.info/inful/dumpsite/internal/links"
)

// HeadingText is one text-bearing hero field with its tagged heading level
// (0 when untagged).
type HeadingText struct {
	Level int
	Text  string
}

// HeroHeadings picks the hero title and subtitle. An explicit H1 is the title
// and the first other text the subtitle. Otherwise two or more texts give
// subtitle first and title last, and a single text is the title.
func HeroHeadings(texts []HeadingText) (title, subtitle string) {
	for i, t := range texts {
		if t.Level != 1 {
			continue
		}
		for j, o := range texts {
			if j != i {
				return t.Text, o.Text
			}
		}
		return t.Text, ""
	}
	switch len(texts) {
	case 0:
		return "", ""
	case 1:
		return texts[0].Text, ""
	default:
		return texts[len(texts)-1].Text, texts[0].Text
	}
}

// heroLayout does not use the area path: it classifies every field of every
// area into heading texts, body markup, background image and buttons.
func heroLayout(c *Context, areas map[string][]Field, settings Settings) []blocks.Block {
	hero := blocks.Block{Kind: blocks.KindHero}
	var texts []HeadingText
	var bodies []string

	for _, name := range sortedAreaNames(areas) {
		for _, f := range areas[name] {
			switch f.Kind {
			case FieldHeading, FieldTextarea:
				if t := links.PlainText(c.Text(f.Value())); t != "" {
					texts = append(texts, HeadingText{Level: headingLevel(f, 0), Text: t})
				}
			case FieldRichText, FieldRawHTML, FieldCode:
				if body := c.Text(f.Value()); strings.TrimSpace(body) != "" {
					bodies = append(bodies, body)
				}
			case FieldImage:
				if hero.Background == "" {
					hero.Background = c.Asset(f.Str("url", "value", "src"))
				}
			case FieldButton, FieldButtonList, FieldLinkList:
				for _, b := range c.MapField(f) {
					hero.Buttons = append(hero.Buttons, b.Buttons...)
				}
			}
		}
	}

	hero.Title, hero.Subtitle = HeroHeadings(texts)
	if hero.Title == "" {
		for _, body := range bodies {
			if h, ok := links.FirstHeading(body); ok && h.Text != "" {
				hero.Title = h.Text
				break
			}
		}
	}
	if hero.Background == "" {
		if img := settings.Str("background_image", "bg_image"); img != "" {
			hero.Background = c.Asset(img)
		}
	}
	hero.Content = strings.Join(bodies, "\n")
	// The background image already lives on the hero itself.
	if style := plainStyle(settings, "", 0); !style.IsZero() {
		hero.Style = style
	}

	if hero.Title == "" && hero.Subtitle == "" && hero.Content == "" && hero.Background == "" && len(hero.Buttons) == 0 {
		return nil
	}
	return []blocks.Block{hero}
}

// headingLevel reads the tagged level of a field ("h2", "2" or 2), def when absent.
func headingLevel(f Field, def int) int {
	raw := strings.ToLower(f.Str("level", "tag", "heading"))
	if raw == "" {
		raw = strings.ToLower(f.Settings().Str("level", "tag"))
	}
	raw = strings.TrimPrefix(raw, "h")
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= 6 {
		return n
	}
	return def
}
