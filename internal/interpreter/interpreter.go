// Package interpreter walks a reflected, resolved schema tree and projects
// every keyword into CommonModel form (spec §4.3).
package interpreter

import (
	"fmt"

	"github.com/xseman/modelgen/internal/jsonschema"
	"github.com/xseman/modelgen/internal/model"
)

// Interpret converts schema into a list of CommonModels: the first element
// is the primary model for schema itself; the rest are auxiliary models
// discovered along the way (oneOf/anyOf members, extracted allOf parents,
// nested properties and items) that the simplifier also needs to see.
func Interpret(schema *jsonschema.Schema, seed string) ([]*model.CommonModel, error) {
	primary, aux, err := interpretNode(schema, seed)
	if err != nil {
		return nil, err
	}
	return append([]*model.CommonModel{primary}, aux...), nil
}

// interpretNode interprets one schema node, returning its own model plus
// every auxiliary model produced transitively (excluding itself).
func interpretNode(schema *jsonschema.Schema, name string) (*model.CommonModel, []*model.CommonModel, error) {
	if schema == nil {
		schema = &jsonschema.Schema{}
	}

	if schema.IsBoolean() {
		return interpretBoolean(schema, name), nil, nil
	}

	m := &model.CommonModel{
		ID:             deriveID(schema, name),
		Title:          schema.Title,
		Description:    schema.Description,
		OriginalSchema: schema,
	}

	var aux []*model.CommonModel
	hadExplicitType := len(schema.Type) > 0
	if hadExplicitType {
		m.Type = model.SortedSet(schema.Type)
	}

	if err := applyEnumAndConst(schema, m, hadExplicitType); err != nil {
		return nil, nil, err
	}

	if err := interpretProperties(schema, m, name, &aux); err != nil {
		return nil, nil, err
	}
	if err := interpretPatternProperties(schema, m, name, &aux); err != nil {
		return nil, nil, err
	}

	// additionalProperties only has meaning alongside an (explicit or
	// implied) object type; interpreting it for every schema would hang a
	// spurious "any" sub-model off of every scalar leaf.
	objectish := len(schema.Properties) > 0 || len(schema.PatternProperties) > 0 || schema.AdditionalProperties != nil
	if hadExplicitType && containsType(schema.Type, jsonschema.TypeObject) {
		objectish = true
	}
	if objectish {
		if err := interpretAdditionalProperties(schema, m, name, &aux); err != nil {
			return nil, nil, err
		}
	}

	if err := interpretItems(schema, m, name, &aux); err != nil {
		return nil, nil, err
	}

	if len(schema.Required) > 0 {
		m.Required = model.SortedSet(schema.Required)
	}

	if !hadExplicitType && (len(schema.Properties) > 0 || len(schema.PatternProperties) > 0) {
		m.Type = model.SortedSet(append(m.Type, jsonschema.TypeObject))
	}

	if err := interpretAllOf(schema, m, name, &aux); err != nil {
		return nil, nil, err
	}
	if err := interpretAnyOrOneOf(schema, m, name, "anyOf", schema.AnyOf, &aux); err != nil {
		return nil, nil, err
	}
	if err := interpretAnyOrOneOf(schema, m, name, "oneOf", schema.OneOf, &aux); err != nil {
		return nil, nil, err
	}
	if err := interpretDependencies(schema, m, name); err != nil {
		return nil, nil, err
	}
	if err := interpretNot(schema, m, name); err != nil {
		return nil, nil, err
	}

	return m, aux, nil
}

func interpretBoolean(schema *jsonschema.Schema, name string) *model.CommonModel {
	if schema.BoolValue() {
		return &model.CommonModel{ID: deriveID(schema, name), OriginalSchema: schema}
	}
	// false is unsatisfiable: represented as a non-nil, empty enum (spec §4.3).
	return &model.CommonModel{ID: deriveID(schema, name), Enum: []any{}, OriginalSchema: schema}
}

func applyEnumAndConst(schema *jsonschema.Schema, m *model.CommonModel, hadExplicitType bool) error {
	var enumValues []any
	switch {
	case schema.Const != nil && schema.Const.IsSet:
		enumValues = []any{schema.Const.Value}
	case schema.Enum != nil:
		enumValues = schema.Enum
	}
	if enumValues == nil {
		return nil
	}
	m.Enum = enumValues
	if !hadExplicitType {
		m.Type = model.SortedSet(append(m.Type, inferTypesFromValues(enumValues)...))
	}
	return nil
}

func interpretProperties(schema *jsonschema.Schema, m *model.CommonModel, name string, aux *[]*model.CommonModel) error {
	if len(schema.Properties) == 0 {
		return nil
	}
	m.Properties = make(map[string]*model.CommonModel, len(schema.Properties))
	for _, key := range sortedKeys(schema.Properties) {
		child, childAux, err := interpretNode(schema.Properties[key], name+"_"+key)
		if err != nil {
			return err
		}
		m.Properties[key] = child
		*aux = append(*aux, child)
		*aux = append(*aux, childAux...)
	}
	return nil
}

func interpretPatternProperties(schema *jsonschema.Schema, m *model.CommonModel, name string, aux *[]*model.CommonModel) error {
	if len(schema.PatternProperties) == 0 {
		return nil
	}
	m.PatternProperties = make(map[string]*model.CommonModel, len(schema.PatternProperties))
	for i, key := range sortedKeys(schema.PatternProperties) {
		child, childAux, err := interpretNode(schema.PatternProperties[key], fmt.Sprintf("%s_pattern_property_%d", name, i))
		if err != nil {
			return err
		}
		m.PatternProperties[key] = child
		*aux = append(*aux, child)
		*aux = append(*aux, childAux...)
	}
	return nil
}

func interpretAdditionalProperties(schema *jsonschema.Schema, m *model.CommonModel, name string, aux *[]*model.CommonModel) error {
	source := schema.AdditionalProperties
	if source == nil {
		trueVal := true
		source = &jsonschema.Schema{Boolean: &trueVal}
	}
	child, childAux, err := interpretNode(source, name+"_additionalProperty")
	if err != nil {
		return err
	}
	m.AdditionalProperties = child
	*aux = append(*aux, child)
	*aux = append(*aux, childAux...)
	return nil
}

func interpretItems(schema *jsonschema.Schema, m *model.CommonModel, name string, aux *[]*model.CommonModel) error {
	switch {
	case schema.ItemsTuple != nil:
		m.ItemsTuple = make([]*model.CommonModel, len(schema.ItemsTuple))
		for i, item := range schema.ItemsTuple {
			child, childAux, err := interpretNode(item, fmt.Sprintf("%s_items_%d", name, i))
			if err != nil {
				return err
			}
			m.ItemsTuple[i] = child
			*aux = append(*aux, child)
			*aux = append(*aux, childAux...)
		}
	case schema.ItemsSingle != nil:
		child, childAux, err := interpretNode(schema.ItemsSingle, name+"_items")
		if err != nil {
			return err
		}
		m.Items = child
		*aux = append(*aux, child)
		*aux = append(*aux, childAux...)
	}
	return nil
}

// interpretAllOf folds allOf members into m rather than leaving them as
// independent alternatives, the deliberate asymmetry with anyOf/oneOf spec
// §9 calls out: an object-typed member is recorded in m.Extend (and also
// returned as an auxiliary model so the simplifier sees the extended
// model); any other member's type and enum are merged into m.
func interpretAllOf(schema *jsonschema.Schema, m *model.CommonModel, name string, aux *[]*model.CommonModel) error {
	for i, member := range schema.AllOf {
		child, childAux, err := interpretNode(member, fmt.Sprintf("%s_allOf_%d", name, i))
		if err != nil {
			return err
		}
		if child.IsObjectModel() {
			m.Extend = append(m.Extend, child.ID)
			*aux = append(*aux, child)
		} else {
			mergeConstraintsInto(m, child)
		}
		*aux = append(*aux, childAux...)
	}
	return nil
}

// interpretAnyOrOneOf emits each member as an independent sibling model and
// unions the parent's type set with the members' types (spec §4.3).
func interpretAnyOrOneOf(schema *jsonschema.Schema, m *model.CommonModel, name, keyword string, members []*jsonschema.Schema, aux *[]*model.CommonModel) error {
	for i, member := range members {
		child, childAux, err := interpretNode(member, fmt.Sprintf("%s_%s_%d", name, keyword, i))
		if err != nil {
			return err
		}
		m.Type = model.SortedSet(append(m.Type, child.Type...))
		*aux = append(*aux, child)
		*aux = append(*aux, childAux...)
	}
	return nil
}

// interpretDependencies merges each schema-valued dependency's constraints
// into the parent, matching allOf's merge (not extend) branch.
func interpretDependencies(schema *jsonschema.Schema, m *model.CommonModel, name string) error {
	for _, key := range sortedDependencyKeys(schema.Dependencies) {
		child, _, err := interpretNode(schema.Dependencies[key], name+"_"+key)
		if err != nil {
			return err
		}
		mergeConstraintsInto(m, child)
	}
	return nil
}

// interpretNot subtracts the negated schema's enum values from the parent's
// enum when both are enum-bearing; otherwise it is structurally ignored,
// the best-effort approximation spec §4.3 and §9 document.
func interpretNot(schema *jsonschema.Schema, m *model.CommonModel, name string) error {
	if schema.Not == nil {
		return nil
	}
	child, _, err := interpretNode(schema.Not, name+"_not")
	if err != nil {
		return err
	}
	if len(m.Enum) == 0 || len(child.Enum) == 0 {
		return nil
	}
	excluded := make(map[any]struct{}, len(child.Enum))
	for _, v := range child.Enum {
		excluded[v] = struct{}{}
	}
	remaining := make([]any, 0, len(m.Enum))
	for _, v := range m.Enum {
		if _, ok := excluded[v]; !ok {
			remaining = append(remaining, v)
		}
	}
	m.Enum = remaining
	return nil
}

// mergeConstraintsInto unions child's type and enum sets into parent,
// the merge-not-extend behavior for allOf's non-object members and for
// dependency subschemas.
func mergeConstraintsInto(parent, child *model.CommonModel) {
	parent.Type = model.SortedSet(append(parent.Type, child.Type...))
	if len(child.Enum) > 0 {
		parent.Enum = append(parent.Enum, child.Enum...)
	}
}

func deriveID(schema *jsonschema.Schema, fallback string) string {
	if schema.ID != "" {
		return schema.ID
	}
	if schema.Title != "" {
		return schema.Title
	}
	if name, ok := schema.InferredName(); ok && name != "" {
		return name
	}
	return fallback
}

func containsType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
