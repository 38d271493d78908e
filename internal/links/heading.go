package links

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/dumpsite/internal/source"
)

// HeadingMatchThreshold is the share of heading tokens a URI must contain to
// be accepted as the heading's link target.
const HeadingMatchThreshold = 0.6

// CardScanWindow bounds how much leading markup is searched for an
// anchor-wrapped image.
const CardScanWindow = 600

// minTokenLen drops short words ("of", "og", "a") from heading tokens.
const minTokenLen = 3

// transliterations covers letters that do not decompose into base + mark.
var transliterations = strings.NewReplacer(
	"æ", "ae", "Æ", "ae",
	"ø", "o", "Ø", "o",
	"œ", "oe", "Œ", "oe",
	"ß", "ss",
	"ð", "d", "Ð", "d",
	"þ", "th", "Þ", "th",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"&", " ",
)

// Heading is the first heading element found in a fragment.
type Heading struct {
	Level int
	Text  string
}

// FirstHeading returns the first h1..h6 element of markup in document order.
func FirstHeading(markup string) (Heading, bool) {
	z := html.NewTokenizer(strings.NewReader(markup))
	level := 0
	var text strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if level > 0 {
				return Heading{Level: level, Text: collapseSpace(text.String())}, true
			}
			return Heading{}, false
		case html.StartTagToken:
			if level == 0 {
				if l := headingLevel(z); l > 0 {
					level = l
				}
			}
		case html.EndTagToken:
			if level > 0 && headingLevel(z) == level {
				return Heading{Level: level, Text: collapseSpace(text.String())}, true
			}
		case html.TextToken:
			if level > 0 {
				text.Write(z.Text())
			}
		}
	}
}

func headingLevel(z *html.Tokenizer) int {
	name, _ := z.TagName()
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}

// CardLink returns the href of an <a> that wraps an <img> within the first
// CardScanWindow bytes of markup.
func CardLink(markup string) (string, bool) {
	if len(markup) > CardScanWindow {
		markup = markup[:CardScanWindow]
	}
	z := html.NewTokenizer(strings.NewReader(markup))
	href := ""
	inAnchor := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "a":
				href = attr(tok, "href")
				inAnchor = href != ""
			case "img":
				if inAnchor {
					return href, true
				}
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "a" {
				inAnchor = false
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// PlainText returns the text content of markup with whitespace collapsed.
func PlainText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeTokens lowercases text, folds accented letters to ASCII and splits
// it into hyphen-separated tokens of at least three characters.
func NormalizeTokens(text string) []string {
	folded := Fold(text)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= minTokenLen {
			out = append(out, f)
		}
	}
	return out
}

// Fold lowercases s and strips diacritics.
func Fold(s string) string {
	s = transliterations.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// MatchHeadingURI scores every live resource path by how many tokens of the
// first heading in markup it contains. The best path wins when it reaches
// HeadingMatchThreshold of the token count; ties go to the shorter path, then
// the lower id.
func MatchHeadingURI(markup string, refs source.ResourceMap) (string, bool) {
	h, ok := FirstHeading(markup)
	if !ok {
		return "", false
	}
	tokens := NormalizeTokens(h.Text)
	if len(tokens) == 0 {
		return "", false
	}

	var bestID int64
	bestScore, bestLen := 0, 0
	for _, id := range refs.SortedIDs() {
		ref, _ := refs.Lookup(id)
		if ref.Deleted {
			continue
		}
		p := strings.ToLower(refs.Path(id))
		if p == "" {
			continue
		}
		score := 0
		for _, tok := range tokens {
			if strings.Contains(p, tok) {
				score++
			}
		}
		if score == 0 {
			continue
		}
		if score > bestScore || (score == bestScore && len(p) < bestLen) {
			bestID, bestScore, bestLen = id, score, len(p)
		}
	}
	if bestScore == 0 || float64(bestScore) < HeadingMatchThreshold*float64(len(tokens)) {
		return "", false
	}
	return refs.Href(bestID)
}
