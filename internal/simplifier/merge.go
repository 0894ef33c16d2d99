package simplifier

import (
	"fmt"

	"github.com/xseman/modelgen/internal/model"
)

// mergeModels combines two CommonModels sharing an $id (rule 2): type,
// enum and required sets union; properties merge recursively; extend is
// concatenated and deduped. incoming is treated as the newer entry, so it
// wins any conflict mergeModels cannot reconcile (spec §4.4 rule 2, §9's
// name-collision note).
func mergeModels(existing, incoming *model.CommonModel) (*model.CommonModel, []Warning) {
	var warnings []Warning

	merged := &model.CommonModel{
		ID:             existing.ID,
		Name:           preferNonEmpty(existing.Name, incoming.Name),
		Title:          preferNonEmpty(existing.Title, incoming.Title),
		Description:    preferNonEmpty(existing.Description, incoming.Description),
		Type:           model.SortedSet(append(append([]string{}, existing.Type...), incoming.Type...)),
		Enum:           unionEnum(existing.Enum, incoming.Enum),
		Required:       model.SortedSet(append(append([]string{}, existing.Required...), incoming.Required...)),
		Extend:         dedupStrings(append(append([]string{}, existing.Extend...), incoming.Extend...)),
		OriginalSchema: incoming.OriginalSchema,
	}

	if existing.Title != "" && incoming.Title != "" && existing.Title != incoming.Title {
		warnings = append(warnings, Warning{ID: existing.ID, Message: fmt.Sprintf("conflicting titles %q and %q during merge; newer entry wins", existing.Title, incoming.Title)})
	}
	if existing.Description != "" && incoming.Description != "" && existing.Description != incoming.Description {
		warnings = append(warnings, Warning{ID: existing.ID, Message: "conflicting descriptions during merge; newer entry wins"})
	}

	props, propWarnings := mergePropertyMaps(existing.ID, existing.Properties, incoming.Properties)
	merged.Properties = props
	warnings = append(warnings, propWarnings...)

	patterns, patternWarnings := mergePropertyMaps(existing.ID, existing.PatternProperties, incoming.PatternProperties)
	merged.PatternProperties = patterns
	warnings = append(warnings, patternWarnings...)

	merged.AdditionalProperties, warnings = mergeChild(existing.ID, existing.AdditionalProperties, incoming.AdditionalProperties, warnings)
	merged.Items, warnings = mergeChild(existing.ID, existing.Items, incoming.Items, warnings)

	switch {
	case len(existing.ItemsTuple) == 0:
		merged.ItemsTuple = incoming.ItemsTuple
	case len(incoming.ItemsTuple) == 0:
		merged.ItemsTuple = existing.ItemsTuple
	case len(existing.ItemsTuple) == len(incoming.ItemsTuple):
		merged.ItemsTuple = existing.ItemsTuple
	default:
		merged.ItemsTuple = incoming.ItemsTuple
		warnings = append(warnings, Warning{ID: existing.ID, Message: "conflicting tuple items length during merge; newer entry wins"})
	}

	return merged, warnings
}

func mergeChild(parentID string, a, b *model.CommonModel, warnings []Warning) (*model.CommonModel, []Warning) {
	switch {
	case a == nil:
		return b, warnings
	case b == nil:
		return a, warnings
	case a.ID == b.ID:
		merged, mergeWarnings := mergeModels(a, b)
		return merged, append(warnings, mergeWarnings...)
	default:
		warnings = append(warnings, Warning{
			ID:      parentID,
			Message: fmt.Sprintf("incompatible child models %q and %q during merge; newer entry wins", a.ID, b.ID),
		})
		return b, warnings
	}
}

func mergePropertyMaps(parentID string, a, b map[string]*model.CommonModel) (map[string]*model.CommonModel, []Warning) {
	if len(a) == 0 && len(b) == 0 {
		return nil, nil
	}
	merged := make(map[string]*model.CommonModel, len(a)+len(b))
	var warnings []Warning
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range b {
		if existing, ok := merged[k]; ok {
			merged[k], warnings = mergeChild(parentID+"."+k, existing, v, warnings)
			continue
		}
		merged[k] = v
	}
	return merged, warnings
}

func unionEnum(a, b []any) []any {
	if a == nil && b == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]any, 0, len(a)+len(b))
	for _, v := range append(append([]any{}, a...), b...) {
		key := fmt.Sprintf("%#v", v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func dedupStrings(values []string) []string {
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
	return out
}

func preferNonEmpty(existing, incoming string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}
