package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

var (
	// ErrOuterDecode reports a property blob that is not a JSON object.
	ErrOuterDecode = errors.New("property blob is not a JSON object")
	// ErrInnerDecode reports a layout list that is not a JSON array.
	ErrInnerDecode = errors.New("layout list is not a JSON array")
)

var contentPath = jp.MustParseString("$.contentblocks.content")

// Layout is one decoded layout entry: its kind, the ordered fields of each
// named area and its free-form settings.
type Layout struct {
	Kind     LayoutKind
	Areas    map[string][]Field
	Settings Settings
}

// DecodeLayouts decodes a resource property blob in two stages: the outer
// object, then the string-encoded layout array found at
// contentblocks.content. A blob without that property decodes to nothing.
func DecodeLayouts(properties string) ([]Layout, error) {
	properties = strings.TrimSpace(properties)
	if properties == "" || properties == "null" || properties == "[]" {
		return nil, nil
	}
	outer, err := oj.ParseString(properties)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOuterDecode, err)
	}
	if _, ok := outer.(map[string]any); !ok {
		return nil, ErrOuterDecode
	}

	var list []any
	switch inner := contentPath.First(outer).(type) {
	case nil:
		return nil, nil
	case []any:
		list = inner
	case string:
		if strings.TrimSpace(inner) == "" {
			return nil, nil
		}
		parsed, err := oj.ParseString(inner)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInnerDecode, err)
		}
		arr, ok := parsed.([]any)
		if !ok {
			return nil, ErrInnerDecode
		}
		list = arr
	default:
		return nil, ErrInnerDecode
	}

	out := make([]Layout, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, decodeLayout(obj))
	}
	return out, nil
}

func decodeLayout(obj map[string]any) Layout {
	l := Layout{
		Kind:     LayoutKind(toInt(obj["layout"])),
		Areas:    map[string][]Field{},
		Settings: Settings(asMap(obj["settings"])),
	}
	for name, raw := range asMap(obj["content"]) {
		list, ok := raw.([]any)
		if !ok {
			continue
		}
		fields := make([]Field, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				fields = append(fields, Field{Kind: FieldKind(toInt(m["field"])), data: m})
			}
		}
		l.Areas[name] = fields
	}
	return l
}
