// Package reflector assigns stable inferred names to anonymous subschemas
// before any other pipeline stage runs (spec §4.1).
package reflector

import (
	"fmt"
	"sort"

	"github.com/xseman/modelgen/internal/jsonschema"
)

// positionKey mirrors the table in spec §4.1: each nameable position in a
// schema tree contributes one path component to a child's inferred name.
type positionKey struct {
	name string
	// definition keys are not prefixed by the parent name (spec §4.1: "to
	// match the calibration test").
	standalone bool
}

// Reflect walks schema in place, writing x-modelgen-inferred-name into every
// object-valued subschema at a nameable position that doesn't already carry
// one. seed is the fallback identity for the root schema itself; it is not
// folded into its children's names, so the root's direct children keep
// their own bare key (spec §8 scenario 1: `x`, not `root_x`).
func Reflect(schema *jsonschema.Schema, seed string) {
	reflectNode(schema, seed, true)
}

func reflectNode(schema *jsonschema.Schema, name string, isRoot bool) {
	if schema == nil || schema.IsBoolean() {
		return
	}

	if _, ok := schema.InferredName(); !ok {
		schema.SetInferredName(name)
	}

	// The root's own assigned name is its fallback identity, not a prefix
	// its children inherit; every other node's children are prefixed by it.
	prefix, _ := schema.InferredName()
	if isRoot {
		prefix = ""
	}

	for _, key := range sortedKeys(schema.Properties) {
		reflectChild(schema.Properties[key], prefix, positionKey{name: key})
	}
	for i, child := range schema.AllOf {
		reflectChild(child, prefix, positionKey{name: fmt.Sprintf("allOf_%d", i)})
	}
	for i, child := range schema.AnyOf {
		reflectChild(child, prefix, positionKey{name: fmt.Sprintf("anyOf_%d", i)})
	}
	for i, child := range schema.OneOf {
		reflectChild(child, prefix, positionKey{name: fmt.Sprintf("oneOf_%d", i)})
	}
	if schema.ItemsSingle != nil {
		reflectChild(schema.ItemsSingle, prefix, positionKey{name: "items"})
	}
	for i, child := range schema.ItemsTuple {
		reflectChild(child, prefix, positionKey{name: fmt.Sprintf("items_%d", i)})
	}
	if schema.AdditionalProperties != nil {
		reflectChild(schema.AdditionalProperties, prefix, positionKey{name: "additionalProperty"})
	}
	for i, key := range sortedKeys(schema.PatternProperties) {
		reflectChild(schema.PatternProperties[key], prefix, positionKey{name: fmt.Sprintf("pattern_property_%d", i)})
	}
	for _, key := range sortedKeys(schema.Dependencies) {
		reflectChild(schema.Dependencies[key], prefix, positionKey{name: key})
	}
	for _, key := range sortedKeys(schema.Definitions) {
		reflectChild(schema.Definitions[key], prefix, positionKey{name: key, standalone: true})
	}
	if schema.Not != nil {
		reflectChild(schema.Not, prefix, positionKey{name: "not"})
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func reflectChild(child *jsonschema.Schema, parentName string, key positionKey) {
	if child == nil {
		return
	}
	name := key.name
	if !key.standalone && parentName != "" {
		name = parentName + "_" + key.name
	}
	reflectNode(child, name, false)
}
