// Package resolver dereferences `$ref` keywords in a reflected schema tree,
// breaking cycles with a sentinel empty-object substitution (spec §4.2).
package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/xseman/modelgen/internal/jsonschema"
)

// ErrUnresolvedReference is returned when a `$ref` cannot be dereferenced
// within the document (spec §7, kind UnresolvedReference).
var ErrUnresolvedReference = errors.New("unresolved reference")

// emptyObjectSentinel is substituted for the second encounter of any $ref
// target on the current resolution path, per spec §4.2.
func emptyObjectSentinel() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       []string{jsonschema.TypeObject},
		Properties: jsonschema.SchemaMap{},
	}
}

// Resolve returns a copy of root with every `$ref` replaced by the
// referenced subtree. External (HTTP/URI) refs are not in scope: only
// document-local JSON Pointers (`#/...`) are resolved.
func Resolve(root *jsonschema.Schema) (*jsonschema.Schema, error) {
	r := &run{root: root, path: make(map[string]bool)}
	resolved, err := r.resolveNode(root)
	if err != nil {
		return nil, err
	}
	resolved.Definitions = nil
	return resolved, nil
}

type run struct {
	root *jsonschema.Schema
	// path tracks $ref targets currently being resolved, to detect cycles.
	path map[string]bool
}

func (r *run) resolveNode(s *jsonschema.Schema) (*jsonschema.Schema, error) {
	if s == nil || s.IsBoolean() {
		return s, nil
	}

	if s.Ref != "" {
		return r.resolveRef(s)
	}

	out := *s
	var err error

	if out.Properties != nil {
		if out.Properties, err = r.resolveMap(out.Properties); err != nil {
			return nil, err
		}
	}
	if out.PatternProperties != nil {
		if out.PatternProperties, err = r.resolveMap(out.PatternProperties); err != nil {
			return nil, err
		}
	}
	if out.Definitions != nil {
		if out.Definitions, err = r.resolveMap(out.Definitions); err != nil {
			return nil, err
		}
	}
	if out.AdditionalProperties, err = r.resolveNode(out.AdditionalProperties); err != nil {
		return nil, err
	}
	if out.ItemsSingle, err = r.resolveNode(out.ItemsSingle); err != nil {
		return nil, err
	}
	if out.ItemsTuple != nil {
		if out.ItemsTuple, err = r.resolveSlice(out.ItemsTuple); err != nil {
			return nil, err
		}
	}
	if out.AllOf, err = r.resolveSlice(out.AllOf); err != nil {
		return nil, err
	}
	if out.AnyOf, err = r.resolveSlice(out.AnyOf); err != nil {
		return nil, err
	}
	if out.OneOf, err = r.resolveSlice(out.OneOf); err != nil {
		return nil, err
	}
	if out.Not, err = r.resolveNode(out.Not); err != nil {
		return nil, err
	}
	if out.Dependencies != nil {
		resolved := make(map[string]*jsonschema.Schema, len(out.Dependencies))
		for k, v := range out.Dependencies {
			if resolved[k], err = r.resolveNode(v); err != nil {
				return nil, err
			}
		}
		out.Dependencies = resolved
	}

	return &out, nil
}

func (r *run) resolveMap(in jsonschema.SchemaMap) (jsonschema.SchemaMap, error) {
	out := make(jsonschema.SchemaMap, len(in))
	for k, v := range in {
		resolved, err := r.resolveNode(v)
		if err != nil {
			return nil, err
		}
		out[k] = resolved
	}
	return out, nil
}

func (r *run) resolveSlice(in []*jsonschema.Schema) ([]*jsonschema.Schema, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]*jsonschema.Schema, len(in))
	for i, v := range in {
		resolved, err := r.resolveNode(v)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

func (r *run) resolveRef(s *jsonschema.Schema) (*jsonschema.Schema, error) {
	ref := s.Ref

	target, err := lookup(r.root, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnresolvedReference, ref, err)
	}

	if r.path[ref] {
		// Second encounter of this $ref target on the current resolution
		// path: substitute the cycle-breaking sentinel, but keep the
		// target's own identity so the recursive child still resolves to
		// the same $id the simplifier merges duplicates under (spec §4.4
		// rule 2, §9's arena/$id-indirection design) instead of a
		// disconnected anonymous empty object.
		return cycleSentinel(target), nil
	}

	r.path[ref] = true
	defer delete(r.path, ref)

	// The inlined subtree keeps the target's own identity ($id/title/
	// inferred name), not the referencing site's: multiple properties
	// referencing the same definition must resolve to the same identity
	// so the simplifier's merge-by-$id rule (spec §4.4 rule 2) collapses
	// them back into one entry instead of duplicating the definition once
	// per reference site.
	return r.resolveNode(target)
}

// cycleSentinel returns the cycle-breaking empty-object sentinel carrying
// target's own identity, so a cyclic reference still converges on the same
// $id as its non-cyclic sibling resolutions.
func cycleSentinel(target *jsonschema.Schema) *jsonschema.Schema {
	sentinel := emptyObjectSentinel()
	sentinel.ID = target.ID
	sentinel.Title = target.Title
	if name, ok := target.InferredName(); ok {
		sentinel.SetInferredName(name)
	}
	return sentinel
}

// lookup resolves a JSON Pointer fragment ref ("#/definitions/foo") against
// root. Only document-local fragment references are supported.
func lookup(root *jsonschema.Schema, ref string) (*jsonschema.Schema, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, fmt.Errorf("external references are not in scope: %s", ref)
	}

	if ref == "#" || ref == "#/" {
		return root, nil
	}

	ptr, err := jsonpointer.New(strings.TrimPrefix(ref, "#"))
	if err != nil {
		return nil, err
	}

	current := root
	tokens := ptr.DecodedTokens()
	for i := 0; i < len(tokens); i++ {
		var consumed int
		current, consumed, err = step(current, tokens[i:])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		if current == nil {
			return nil, fmt.Errorf("%s: segment %q not found", ref, tokens[i])
		}
		i += consumed - 1
	}
	return current, nil
}

// step consumes one or two leading tokens from remaining and returns the
// resulting node plus how many tokens it consumed, per the position table in
// spec §4.1 (the same tree shape the reflector walks). Map-valued keywords
// (properties, patternProperties, definitions, dependencies) consume both
// their own token and the following key in one step.
func step(s *jsonschema.Schema, remaining []string) (*jsonschema.Schema, int, error) {
	if s == nil {
		return nil, 0, fmt.Errorf("cannot step into nil schema")
	}

	token := remaining[0]

	switch token {
	case "properties", "patternProperties", "definitions", "dependencies":
		if len(remaining) < 2 {
			return nil, 0, fmt.Errorf("%q requires a following key", token)
		}
		key := remaining[1]
		var m map[string]*jsonschema.Schema
		switch token {
		case "properties":
			for k, v := range s.Properties {
				if m == nil {
					m = map[string]*jsonschema.Schema{}
				}
				m[k] = v
			}
		case "patternProperties":
			for k, v := range s.PatternProperties {
				if m == nil {
					m = map[string]*jsonschema.Schema{}
				}
				m[k] = v
			}
		case "definitions":
			for k, v := range s.Definitions {
				if m == nil {
					m = map[string]*jsonschema.Schema{}
				}
				m[k] = v
			}
		case "dependencies":
			m = s.Dependencies
		}
		child, ok := m[key]
		if !ok {
			return nil, 0, fmt.Errorf("%s/%s not found", token, key)
		}
		return child, 2, nil

	case "additionalProperties":
		return s.AdditionalProperties, 1, nil
	case "not":
		return s.Not, 1, nil
	case "items":
		if s.ItemsSingle != nil {
			return s.ItemsSingle, 1, nil
		}
		if s.ItemsTuple != nil && len(remaining) >= 2 {
			idx, err := strconv.Atoi(remaining[1])
			if err != nil {
				return nil, 0, fmt.Errorf("items index %q: %w", remaining[1], err)
			}
			if idx < 0 || idx >= len(s.ItemsTuple) {
				return nil, 0, fmt.Errorf("tuple index %d out of range", idx)
			}
			return s.ItemsTuple[idx], 2, nil
		}
		return nil, 0, fmt.Errorf("items is a tuple; an index is required")
	case "allOf", "anyOf", "oneOf":
		if len(remaining) < 2 {
			return nil, 0, fmt.Errorf("%q requires a following index", token)
		}
		idx, err := strconv.Atoi(remaining[1])
		if err != nil {
			return nil, 0, fmt.Errorf("%q index %q: %w", token, remaining[1], err)
		}
		var list []*jsonschema.Schema
		switch token {
		case "allOf":
			list = s.AllOf
		case "anyOf":
			list = s.AnyOf
		case "oneOf":
			list = s.OneOf
		}
		if idx < 0 || idx >= len(list) {
			return nil, 0, fmt.Errorf("%q index %d out of range", token, idx)
		}
		return list[idx], 2, nil
	}

	if idx, err := strconv.Atoi(token); err == nil && s.ItemsTuple != nil {
		if idx < 0 || idx >= len(s.ItemsTuple) {
			return nil, 0, fmt.Errorf("tuple index %d out of range", idx)
		}
		return s.ItemsTuple[idx], 1, nil
	}

	return nil, 0, fmt.Errorf("unknown pointer segment %q", token)
}
