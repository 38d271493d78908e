// Package sqldump reconstructs typed row values from the INSERT statements of a
// MySQL-style dump. It is deliberately forgiving: it never validates SQL, it only
// recovers the literals of the dump shape produced by the legacy CMS export.
package sqldump

import (
	"strconv"
	"strings"
)

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Value is one decoded SQL literal.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
}

// Null is the decoded NULL literal.
var Null = Value{Kind: KindNull}

// StringValue wraps s as a string Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IntValue wraps n as an integer Value.
func IntValue(n int64) Value { return Value{Kind: KindInt, Int: n} }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders v as text. NULL renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return v.Str
	}
}

// Int64 returns v as an integer. Strings holding a number are converted;
// anything else is 0.
func (v Value) Int64() int64 {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return int64(v.Float)
	case KindString:
		if n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return int64(f)
		}
	}
	return 0
}

// Bool interprets the CMS flag columns: non-zero numbers, "1", "true", "yes".
func (v Value) Bool() bool {
	switch v.Kind {
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "1", "true", "yes", "on":
			return true
		}
	}
	return false
}

// ParseValue decodes one raw literal substring. It never fails: input that is
// not NULL, a quoted string or a number comes back as a raw string.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, "NULL") {
		return Null
	}
	if len(s) >= 2 {
		q := s[0]
		if (q == '\'' || q == '"') && s[len(s)-1] == q {
			return StringValue(unescape(s[1:len(s)-1], q))
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Value{Kind: KindFloat, Float: f}
	}
	return StringValue(s)
}

// unescape expands the dump's backslash escapes. Unknown escapes keep their
// backslash so Windows paths and regular expressions survive intact.
func unescape(body string, quote byte) string {
	if strings.IndexByte(body, '\\') < 0 && !strings.Contains(body, string([]byte{quote, quote})) {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			switch n := body[i]; n {
			case '\\', '\'', '"':
				b.WriteByte(n)
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte('\\')
				b.WriteByte(n)
			}
		case c == quote && i+1 < len(body) && body[i+1] == quote:
			b.WriteByte(quote)
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Quote encodes s as a single-quoted literal the way the dump tooling does.
// ParseValue(Quote(s)) returns s for every s.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
