package metadata

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

const mergeTag = "!!merge"

// yamlValue converts a YAML node tree into the same shapes the JSON decoder
// produces: map[string]any, []any, json.Number, string, bool and nil.
// Mapping keys are stringified and timestamps keep their source text.
func yamlValue(n *yaml.Node) (any, error) {
	return convertNode(n, map[*yaml.Node]bool{})
}

func convertNode(n *yaml.Node, expanding map[*yaml.Node]bool) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return convertNode(n.Content[0], expanding)
	case yaml.AliasNode:
		if expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: alias *%s refers to itself", n.Line, n.Value)
		}
		expanding[n.Alias] = true
		defer delete(expanding, n.Alias)
		return convertNode(n.Alias, expanding)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := convertNode(c, expanding)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return convertMapping(n, expanding)
	case yaml.ScalarNode:
		return convertScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func convertMapping(n *yaml.Node, expanding map[*yaml.Node]bool) (map[string]any, error) {
	out := make(map[string]any, len(n.Content)/2)
	var merged []map[string]any

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		val, err := convertNode(v, expanding)
		if err != nil {
			return nil, err
		}

		if k.ShortTag() == mergeTag {
			switch m := val.(type) {
			case map[string]any:
				merged = append(merged, m)
			case []any:
				for _, item := range m {
					if mm, ok := item.(map[string]any); ok {
						merged = append(merged, mm)
					}
				}
			}
			continue
		}

		key, err := yamlKey(k, expanding)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}

	// Explicit keys win over merged ones; earlier merge sources win over later
	for _, m := range merged {
		for k, v := range m {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	return out, nil
}

// yamlKey returns the string form of a mapping key
func yamlKey(k *yaml.Node, expanding map[*yaml.Node]bool) (string, error) {
	if k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind == yaml.ScalarNode {
		return k.Value, nil
	}
	v, err := convertNode(k, expanding)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func convertScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!str", "!!timestamp", "!!binary":
		return n.Value, nil
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		if isJSONNumber(n.Value) {
			return json.Number(n.Value), nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return n.Value, nil
		}
		return v, nil
	}
	// Unknown local tags keep their text
	return n.Value, nil
}

// isJSONNumber reports whether s is already a valid JSON number literal
func isJSONNumber(s string) bool {
	if s == "" || !(s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) {
		return false
	}
	return json.Valid([]byte(s))
}

// yamlItemKeys returns the field names of each identifiers item in file
// order, or nil when the document has no identifiers sequence
func yamlItemKeys(root *yaml.Node) [][]string {
	doc := resolveAlias(root)
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		doc = resolveAlias(doc.Content[0])
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}

	var list *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == IdentifiersKey {
			list = resolveAlias(doc.Content[i+1])
		}
	}
	if list == nil || list.Kind != yaml.SequenceNode {
		return nil
	}

	keys := make([][]string, len(list.Content))
	for i, item := range list.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			continue
		}
		names := []string{}
		for j := 0; j+1 < len(item.Content); j += 2 {
			k := item.Content[j]
			if k.ShortTag() == mergeTag {
				continue
			}
			name, err := yamlKey(k, map[*yaml.Node]bool{})
			if err != nil {
				continue
			}
			names = append(names, name)
		}
		keys[i] = names
	}
	return keys
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
