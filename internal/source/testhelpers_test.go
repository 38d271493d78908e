package source

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/dumpsite/internal/sqldump"
)

// resourceRow renders one resources tuple with the given columns set and every
// other column filled with an empty string.
func resourceRow(cols map[int]any) string {
	return tupleText(ResourceColumns, cols)
}

func tupleText(width int, cols map[int]any) string {
	parts := make([]string, width)
	for i := range parts {
		v, ok := cols[i]
		switch {
		case !ok:
			parts[i] = "''"
		case v == nil:
			parts[i] = "NULL"
		default:
			switch tv := v.(type) {
			case string:
				parts[i] = sqldump.Quote(tv)
			default:
				parts[i] = fmt.Sprint(tv)
			}
		}
	}
	return "(" + strings.Join(parts, ",") + ")"
}

func insert(table string, rows ...string) string {
	return "INSERT INTO `" + table + "` VALUES " + strings.Join(rows, ",") + ";\n"
}
