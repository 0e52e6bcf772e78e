package variables

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ErrPathNotFound is returned when the selected parameter object does not exist.
var ErrPathNotFound = errors.New("path not found")

// DecodeJSON parses a JSON object of name -> value into ordered Params.
// Array values become lists, null becomes KindNull and anything else is kept
// as a scalar. Every key is kept in document order, including keys that
// differ only in case.
func DecodeJSON(data []byte) (Params, error) {
	return DecodeJSONPath(data, "")
}

// DecodeJSONPath is like DecodeJSON but first selects the parameter object at
// path, which accepts "$.field", "field" or gjson syntax. An empty path or "$"
// selects the whole document. A null object at path yields no parameters.
func DecodeJSONPath(data []byte, path string) (Params, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if path = normalizePath(path); path != "" {
		root = root.Get(path)
		if !root.Exists() {
			return nil, fmt.Errorf("JSON %w: %s", ErrPathNotFound, path)
		}
		if root.Type == gjson.Null {
			return Params{}, nil
		}
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("expected JSON object of parameters, got %s", root.Type)
	}

	params := Params{}
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		switch {
		case value.Type == gjson.Null:
			params = append(params, Param{Name: name, Kind: KindNull})
		case value.IsArray():
			items := value.Array()
			values := make([]string, 0, len(items))
			for _, item := range items {
				values = append(values, jsonItemString(item))
			}
			params = append(params, Param{Name: name, Values: values, Kind: KindList})
		default:
			params = append(params, Param{Name: name, Values: []string{value.String()}, Kind: KindScalar})
		}
		return true
	})
	return params, nil
}

// jsonItemString renders a list item as a dashboard client would stringify it:
// null as "null" and nested arrays joined with commas.
func jsonItemString(item gjson.Result) string {
	switch {
	case item.Type == gjson.Null:
		return "null"
	case item.IsArray():
		inner := item.Array()
		parts := make([]string, len(inner))
		for i, v := range inner {
			parts[i] = jsonItemString(v)
		}
		return strings.Join(parts, ",")
	default:
		return item.String()
	}
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "$.") {
		return path[2:]
	}
	if path == "$" {
		return ""
	}
	return path
}

// DecodeYAML parses a YAML mapping of name -> value into ordered Params.
// An empty document yields no parameters.
func DecodeYAML(data []byte) (Params, error) {
	return DecodeYAMLKey(data, "")
}

// DecodeYAMLKey is like DecodeYAML but first selects the top-level mapping
// entry named key. An empty key selects the whole document.
func DecodeYAMLKey(data []byte, key string) (Params, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		if key != "" {
			return nil, fmt.Errorf("YAML %w: %s", ErrPathNotFound, key)
		}
		return Params{}, nil
	}

	root := resolveAlias(doc.Content[0])
	if key != "" {
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("YAML %w: %s", ErrPathNotFound, key)
		}
		root = mappingValue(root, key)
		if root == nil {
			return nil, fmt.Errorf("YAML %w: %s", ErrPathNotFound, key)
		}
		if isNullNode(root) {
			return Params{}, nil
		}
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected YAML mapping of parameters, got %s", nodeKind(root))
	}

	params := Params{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		value := resolveAlias(root.Content[i+1])
		switch {
		case isNullNode(value):
			params = append(params, Param{Name: name, Kind: KindNull})
		case value.Kind == yaml.SequenceNode:
			values := make([]string, 0, len(value.Content))
			for _, item := range value.Content {
				str, err := yamlItemString(resolveAlias(item))
				if err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				values = append(values, str)
			}
			params = append(params, Param{Name: name, Values: values, Kind: KindList})
		default:
			str, err := nodeString(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			params = append(params, Param{Name: name, Values: []string{str}, Kind: KindScalar})
		}
	}
	return params, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolveAlias(m.Content[i+1])
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNullNode(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// yamlItemString renders a sequence item the same way jsonItemString does.
func yamlItemString(n *yaml.Node) (string, error) {
	switch {
	case isNullNode(n):
		return "null", nil
	case n.Kind == yaml.SequenceNode:
		parts := make([]string, len(n.Content))
		for i, item := range n.Content {
			str, err := yamlItemString(resolveAlias(item))
			if err != nil {
				return "", err
			}
			parts[i] = str
		}
		return strings.Join(parts, ","), nil
	default:
		return nodeString(n)
	}
}

func nodeString(n *yaml.Node) (string, error) {
	if n.Kind == yaml.ScalarNode {
		return n.Value, nil
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "unknown node"
	}
}

// FromMap converts a decoded settings map into Params. Map order is not
// preserved, so names are sorted.
func FromMap(m map[string]interface{}) Params {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(Params, 0, len(names))
	for _, name := range names {
		switch v := m[name].(type) {
		case nil:
			params = append(params, Param{Name: name, Kind: KindNull})
		case []string:
			params = append(params, Param{Name: name, Values: cloneValues(v), Kind: KindList})
		case []interface{}:
			values := make([]string, len(v))
			for i, item := range v {
				if item == nil {
					values[i] = "null"
				} else {
					values[i] = fmt.Sprint(item)
				}
			}
			params = append(params, Param{Name: name, Values: values, Kind: KindList})
		default:
			params = append(params, Param{Name: name, Values: []string{fmt.Sprint(v)}, Kind: KindScalar})
		}
	}
	return params
}

// ParseAssignment parses a "name=v1,v2" parameter assignment. A bare "name="
// assigns an empty list.
func ParseAssignment(s string) (Param, error) {
	name, rhs, ok := strings.Cut(s, "=")
	if !ok {
		return Param{}, fmt.Errorf("parameter %q must be in name=value[,value] form", s)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Param{}, fmt.Errorf("parameter %q has an empty name", s)
	}

	values := []string{}
	if strings.TrimSpace(rhs) != "" {
		for _, v := range strings.Split(rhs, ",") {
			values = append(values, strings.TrimSpace(v))
		}
	}
	return Param{Name: name, Values: values, Kind: KindList}, nil
}
