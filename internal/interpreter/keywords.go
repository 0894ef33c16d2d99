package interpreter

import (
	"sort"

	"github.com/xseman/modelgen/internal/jsonschema"
)

// inferType maps a decoded JSON literal to the draft-07 type tag it belongs
// to, following the mapping in spec §4.3: null, boolean and array map
// directly; whole-number floats (the closest Go analogue of the source's
// bigint) map to integer; everything else falls back to its JSON type.
func inferType(v any) string {
	switch value := v.(type) {
	case nil:
		return jsonschema.TypeNull
	case bool:
		return jsonschema.TypeBoolean
	case []any:
		return jsonschema.TypeArray
	case map[string]any:
		return jsonschema.TypeObject
	case string:
		return jsonschema.TypeString
	case float64:
		if value == float64(int64(value)) {
			return jsonschema.TypeInteger
		}
		return jsonschema.TypeNumber
	default:
		return jsonschema.TypeString
	}
}

// inferTypesFromValues returns the sorted-unique set of type tags every
// value in values belongs to (spec §4.3's enum/const type inference).
func inferTypesFromValues(values []any) []string {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[inferType(v)] = struct{}{}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
