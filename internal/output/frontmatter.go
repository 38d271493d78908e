package output

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

const delimiter = "---\n"

// ErrNoFrontMatter is returned by SplitDocument for files that do not open
// with a front matter block.
var ErrNoFrontMatter = errors.New("document has no front matter block")

// JoinDocument frames fm as YAML front matter followed by body.
func JoinDocument(fm, body []byte) []byte {
	out := make([]byte, 0, len(delimiter)*2+len(fm)+len(body))
	out = append(out, delimiter...)
	out = append(out, fm...)
	out = append(out, delimiter...)
	return append(out, body...)
}

// SplitDocument separates the front matter of a document written by
// JoinDocument from its body.
func SplitDocument(doc []byte) (fm, body []byte, err error) {
	if !bytes.HasPrefix(doc, []byte(delimiter)) {
		return nil, doc, ErrNoFrontMatter
	}
	rest := doc[len(delimiter):]
	if bytes.HasPrefix(rest, []byte(delimiter)) {
		return []byte{}, rest[len(delimiter):], nil
	}
	idx := bytes.Index(rest, []byte("\n"+delimiter))
	if idx < 0 {
		return nil, nil, fmt.Errorf("front matter is not closed")
	}
	return rest[:idx+1], rest[idx+1+len(delimiter):], nil
}

// ParseFrontMatter decodes front matter into a generic map.
func ParseFrontMatter(fm []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// EncodeFrontMatter writes fields as YAML with every mapping's keys sorted, so
// equal maps always encode to equal bytes.
func EncodeFrontMatter(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	return EncodeYAML(fields)
}

// EncodeYAML writes v as YAML through the same sorted node builder as front
// matter.
func EncodeYAML(v any) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generic converts a tagged struct value into maps, slices and scalars by
// round-tripping it through YAML.
func Generic(v any) (any, error) {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(t)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(t, 10)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(t, 'g', -1, 64)}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			val, err := toNode(t[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, val)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range t {
			val, err := toNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, val)
		}
		return n, nil
	case []string:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range t {
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return n, nil
	default:
		g, err := Generic(v)
		if err != nil {
			return nil, err
		}
		return toNode(g)
	}
}
