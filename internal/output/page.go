// Package output writes an assembled document set to disk: one front-matter
// document per page plus the site and redirect data files.
package output

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/dumpsite/internal/assemble"
)

const (
	// FieldUID holds the stable page identifier.
	FieldUID = "uid"
	// FieldAliases holds the uid alias path of a page.
	FieldAliases = "aliases"
)

// uidNamespace scopes page uids so they never collide with other v5 uuids.
var uidNamespace = uuid.MustParse("6f1b7f2e-3f1d-5a8e-9c55-4d0d8b6a2f10")

// PageUID returns the deterministic uid of a resource within a site.
func PageUID(site string, resourceID int64) string {
	return uuid.NewSHA1(uidNamespace, []byte(fmt.Sprintf("dumpsite:%s:%d", site, resourceID))).String()
}

// excluded from the fingerprint: the fingerprint itself and fields derived
// from the resource id alone.
var fingerprintExcluded = map[string]struct{}{
	mdfp.FingerprintField: {},
	FieldUID:              {},
	FieldAliases:          {},
}

// Fingerprint computes the content fingerprint of a parsed page document.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, skip := fingerprintExcluded[k]; skip {
			continue
		}
		hashed[k] = v
	}
	fm, err := EncodeFrontMatter(hashed)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(string(fm), string(body)), nil
}

// PageFields returns the front matter map of p.
func PageFields(site string, p assemble.Page) (map[string]any, error) {
	g, err := Generic(p)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", p.ResourceID, err)
	}
	fields, ok := g.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("page %d: unexpected encoding %T", p.ResourceID, g)
	}
	uid := PageUID(site, p.ResourceID)
	fields[FieldUID] = uid
	fields[FieldAliases] = []any{"/_uid/" + uid + "/"}
	return fields, nil
}

// RenderPage encodes p as a fingerprinted document. Rendering the same page
// twice yields identical bytes.
func RenderPage(site string, p assemble.Page) ([]byte, error) {
	fields, err := PageFields(site, p)
	if err != nil {
		return nil, err
	}
	var body []byte
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return nil, err
	}
	fields[mdfp.FingerprintField] = fp
	fm, err := EncodeFrontMatter(fields)
	if err != nil {
		return nil, err
	}
	return JoinDocument(fm, body), nil
}
