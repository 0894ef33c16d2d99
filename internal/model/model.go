// Package model defines CommonModel, the normalized, flat intermediate
// representation the interpreter and simplifier produce (spec §3).
package model

import "sort"

// CommonModel is the pipeline's normalized intermediate representation, one
// record per nameable schema node. Every child position (Properties[k],
// Items, AdditionalProperties, PatternProperties[p]) holds a fully-formed
// CommonModel, never a raw schema.
//
// After simplification, a child position that used to hold an object- or
// enum-typed subtree, and every Properties[k] position whose model is not
// the all-types "any" model, instead holds a reference model: a
// CommonModel carrying only ID, used as a placeholder into the map
// Simplify returns. See IsReferenceModel.
type CommonModel struct {
	ID          string
	Name        string
	Title       string
	Description string

	// Type is either absent or a sorted-unique set of JSON type tags. When
	// all seven JSON types are present the model represents "any".
	Type []string

	// Enum, when non-empty, marks this model as an enumeration of literal
	// values. An unsatisfiable boolean-false schema is represented as a
	// model with a non-nil, empty Enum slice.
	Enum []any

	Properties           map[string]*CommonModel
	PatternProperties    map[string]*CommonModel
	AdditionalProperties *CommonModel

	// Items is the single item model for list validation. ItemsTuple, when
	// non-nil, holds tuple validation's ordered per-position models instead.
	Items      *CommonModel
	ItemsTuple []*CommonModel

	Required []string

	// Extend lists the $ids of models this model inherits from, derived
	// from allOf members that produced an object-typed model (spec §4.3).
	Extend []string

	// OriginalSchema is a back-pointer to the schema node this model was
	// interpreted from, preserved for a downstream renderer's use.
	OriginalSchema any
}

// IsReferenceModel reports whether m is a bare placeholder pointing at
// another entry in a model map, rather than a fully interpreted model.
func (m *CommonModel) IsReferenceModel() bool {
	if m == nil || m.ID == "" {
		return false
	}
	return len(m.Type) == 0 && len(m.Enum) == 0 && len(m.Properties) == 0 &&
		len(m.PatternProperties) == 0 && m.AdditionalProperties == nil &&
		m.Items == nil && len(m.ItemsTuple) == 0 && len(m.Required) == 0 &&
		len(m.Extend) == 0
}

// Reference returns a reference model pointing at id.
func Reference(id string) *CommonModel {
	return &CommonModel{ID: id}
}

// IsObjectModel reports whether m is an "object model": type includes
// object and it has at least one of properties, extend, patternProperties,
// or additionalProperties (spec §3).
func (m *CommonModel) IsObjectModel() bool {
	if m == nil {
		return false
	}
	if !containsType(m.Type, "object") {
		return false
	}
	return len(m.Properties) > 0 || len(m.Extend) > 0 ||
		len(m.PatternProperties) > 0 || m.AdditionalProperties != nil
}

// IsEnumModel reports whether m is an enumeration of literal values.
func (m *CommonModel) IsEnumModel() bool {
	return m != nil && len(m.Enum) > 0
}

// IsUnsatisfiableModel reports whether m represents a `false` boolean
// schema: a non-nil, empty Enum means no value is acceptable (spec §4.3).
func (m *CommonModel) IsUnsatisfiableModel() bool {
	return m != nil && m.Enum != nil && len(m.Enum) == 0
}

// IsAnyModel reports whether m's type set is all seven JSON types, the
// "any" collapse case that is never extracted as an object sub-model even
// when object is technically a member (spec §4.4 rule 3).
func IsAnyModel(allTypes []string, m *CommonModel) bool {
	if m == nil || len(m.Type) != len(allTypes) {
		return false
	}
	have := make(map[string]struct{}, len(m.Type))
	for _, t := range m.Type {
		have[t] = struct{}{}
	}
	for _, t := range allTypes {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	return true
}

func containsType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// SortedSet returns a copy of values, deduplicated and sorted, matching the
// "sorted-unique set" invariant Type and Required both hold (spec §3).
func SortedSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
