package sqldump

import "strings"

// Tuple is one row of decoded values in column order.
type Tuple []Value

// SplitResult is the outcome of splitting a VALUES blob.
type SplitResult struct {
	Tuples []Tuple
	// Dropped holds the raw text of tuples that never terminated.
	Dropped []string
}

// SplitTuples scans the text between VALUES and the statement terminator into
// tuples. Row payloads carry free-form HTML and JSON, so commas and parentheses
// are only structural outside quoted strings and at nesting depth zero.
//
// A quote opens a string only at the start of a token; a stray quote inside an
// unquoted token is kept literally. Text between tuples is ignored, and an
// unterminated trailing tuple is reported in Dropped instead of failing.
func SplitTuples(values string) SplitResult {
	var (
		res      SplitResult
		tok      strings.Builder
		cur      Tuple
		inTuple  bool
		inString bool
		quote    byte
		depth    int
		started  bool // current token holds a non-space byte
		start    int
	)

	endValue := func() {
		cur = append(cur, ParseValue(tok.String()))
		tok.Reset()
		started = false
	}

	for i := 0; i < len(values); i++ {
		c := values[i]
		if !inTuple {
			if c == '(' {
				inTuple = true
				depth = 0
				cur = nil
				tok.Reset()
				started = false
				start = i
			}
			continue
		}

		if inString {
			tok.WriteByte(c)
			switch {
			case c == '\\' && i+1 < len(values):
				i++
				tok.WriteByte(values[i])
			case c == quote && i+1 < len(values) && values[i+1] == quote:
				i++
				tok.WriteByte(values[i])
			case c == quote:
				inString = false
			}
			continue
		}

		switch c {
		case '\'', '"':
			if !started {
				inString = true
				quote = c
			}
			started = true
			tok.WriteByte(c)
		case '(':
			depth++
			started = true
			tok.WriteByte(c)
		case ')':
			if depth > 0 {
				depth--
				tok.WriteByte(c)
				continue
			}
			endValue()
			res.Tuples = append(res.Tuples, cur)
			cur = nil
			inTuple = false
		case ',':
			if depth > 0 {
				tok.WriteByte(c)
				continue
			}
			endValue()
		case ' ', '\t', '\n', '\r':
			tok.WriteByte(c)
		default:
			started = true
			tok.WriteByte(c)
		}
	}

	if inTuple {
		res.Dropped = append(res.Dropped, values[start:])
	}
	return res
}
