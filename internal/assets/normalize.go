package assets

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// hashedName matches a cache filename carrying a 32-hex digest before the extension.
var hashedName = regexp.MustCompile(`^(.*)[._-]([0-9a-fA-F]{32})(\.[A-Za-z0-9]+)$`)

var separatorRun = regexp.MustCompile(`[\s_+-]+`)

// StripHash recovers the original filename from a hash-bearing cache filename.
func StripHash(name string) (string, bool) {
	m := hashedName.FindStringSubmatch(name)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1] + m[3], true
}

// NormalizeName folds a filename for fuzzy comparison: lowercase, URL-decoded,
// whitespace, underscore and plus runs collapsed to one hyphen, .jpeg spelled .jpg.
func NormalizeName(name string) string {
	if dec, err := url.PathUnescape(name); err == nil {
		name = dec
	}
	name = strings.ToLower(strings.TrimSpace(name))
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	stem = separatorRun.ReplaceAllString(stem, "-")
	return strings.Trim(stem, "-") + ext
}
