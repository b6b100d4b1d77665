package ontology

import (
	"maps"
	"slices"
)

// Properties is a schema-less, string-keyed property bag attached to
// ontologies, nodes and edges. Values are JSON-compatible: strings, numbers,
// booleans, nil, []any and map[string]any.
type Properties map[string]any

// Clone returns a deep copy of p. Nested maps and slices are copied; a nil
// bag stays nil.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// Keys returns the property keys in sorted order.
func (p Properties) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case Properties:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	case []string:
		return slices.Clone(t)
	}
	return v
}
