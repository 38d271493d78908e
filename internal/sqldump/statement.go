package sqldump

import (
	"regexp"
)

func insertPattern(table string) *regexp.Regexp {
	return regexp.MustCompile("(?i)INSERT\\s+(?:IGNORE\\s+)?INTO\\s+`?" + regexp.QuoteMeta(table) +
		"`?(?:\\s*\\([^)]*\\))?\\s*VALUES\\s*")
}

// FindInsert locates the first INSERT statement for table and returns the text
// between VALUES and the terminating semicolon. The terminator is the first ';'
// outside a quoted string, so payloads containing ");" do not cut the
// statement short.
func FindInsert(dump, table string) (string, bool) {
	loc := insertPattern(table).FindStringIndex(dump)
	if loc == nil {
		return "", false
	}
	start := loc[1]
	return dump[start:statementEnd(dump, start)], true
}

// CountInserts reports how many INSERT statements target table. Only the first
// is extracted; callers use this to warn about the rest.
func CountInserts(dump, table string) int {
	return len(insertPattern(table).FindAllStringIndex(dump, -1))
}

func statementEnd(s string, from int) int {
	inString := false
	var quote byte
	for i := from; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case c == '\\':
				i++
			case c == quote && i+1 < len(s) && s[i+1] == quote:
				i++
			case c == quote:
				inString = false
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = true
			quote = c
		case ';':
			return i
		}
	}
	return len(s)
}
