// Package simplifier merges, dedups and extracts sub-models from the flat
// list the interpreter produces into the pipeline's final output map
// (spec §4.4).
package simplifier

import (
	"fmt"

	"github.com/xseman/modelgen/internal/jsonschema"
	"github.com/xseman/modelgen/internal/model"
)

// Warning records a non-fatal condition encountered while simplifying,
// surfaced alongside the model map rather than failing the pipeline
// (spec §7's MergeConflict kind).
type Warning struct {
	ID      string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.ID, w.Message)
}

// Simplify merges duplicate $ids in models, extracts sub-models from child
// positions, and returns the final $id-keyed map alongside any merge
// warnings. models is the flat list Interpret returns: the primary model
// for the root schema plus every auxiliary model discovered along the way.
func Simplify(models []*model.CommonModel) (map[string]*model.CommonModel, []Warning, error) {
	canonical := make(map[string]*model.CommonModel, len(models))
	var warnings []Warning

	for _, m := range models {
		if m == nil || m.ID == "" {
			return nil, nil, fmt.Errorf("simplifier: model with empty $id")
		}
		existing, ok := canonical[m.ID]
		if !ok {
			canonical[m.ID] = m
			continue
		}
		if existing == m {
			continue
		}
		merged, mergeWarnings := mergeModels(existing, m)
		canonical[m.ID] = merged
		warnings = append(warnings, mergeWarnings...)
	}

	for _, m := range canonical {
		rewireChildren(m, canonical)
	}

	return canonical, warnings, nil
}

// rewireChildren replaces every child position that qualifies for
// extraction (rule 1) with a reference model, and otherwise points the
// position at the canonical (post-merge) representative for its $id.
func rewireChildren(m *model.CommonModel, canonical map[string]*model.CommonModel) {
	for key, child := range m.Properties {
		// A property model is always a sub-model, never inlined, unless the
		// all-types collapse applies (spec §4.3, §4.4 rule 3).
		m.Properties[key] = rewire(child, canonical, true)
	}
	for key, child := range m.PatternProperties {
		m.PatternProperties[key] = rewire(child, canonical, false)
	}
	if m.AdditionalProperties != nil {
		m.AdditionalProperties = rewire(m.AdditionalProperties, canonical, false)
	}
	if m.Items != nil {
		m.Items = rewire(m.Items, canonical, false)
	}
	for i, child := range m.ItemsTuple {
		m.ItemsTuple[i] = rewire(child, canonical, false)
	}
}

func rewire(child *model.CommonModel, canonical map[string]*model.CommonModel, alwaysExtract bool) *model.CommonModel {
	if child == nil {
		return nil
	}
	resolved := child
	if c, ok := canonical[child.ID]; ok {
		resolved = c
	}

	if model.IsAnyModel(jsonschema.AllTypes, resolved) {
		// Rule 3: never extracted as a sub-model, even as a property value.
		return resolved
	}

	if alwaysExtract || resolved.IsObjectModel() || resolved.IsEnumModel() {
		return model.Reference(resolved.ID)
	}

	return resolved
}
