// Package openapiadapter loads OpenAPI 3.x and Swagger 2.0 documents and
// feeds each named component schema through the same core pipeline used
// for plain JSON Schema draft-07 input (spec §1: "AsyncAPI, OpenAPI
// adapters are peripheral input processors reusing the same core").
package openapiadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/xseman/modelgen/internal/model"
	"github.com/xseman/modelgen/internal/pipeline"
	"github.com/xseman/modelgen/internal/simplifier"
)

// Adapter loads an OpenAPI/Swagger document and translates its
// components.schemas entries into draft-07 documents for Processor.
type Adapter struct {
	Processor *pipeline.Processor
	Doc       *openapi3.T
}

// New builds an Adapter backed by p.
func New(p *pipeline.Processor) *Adapter {
	return &Adapter{Processor: p}
}

// LoadFile loads an OpenAPI 3.x or Swagger 2.0 document from path,
// converting Swagger 2.0 to OpenAPI 3 via openapi2conv as the teacher's
// parser.LoadFromFile does.
func (a *Adapter) LoadFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("openapiadapter: read %s: %w", path, err)
	}
	return a.LoadData(data)
}

// LoadData loads an OpenAPI 3.x or Swagger 2.0 document from raw bytes.
func (a *Adapter) LoadData(data []byte) error {
	if isSwagger2(data) {
		return a.loadSwagger2(data)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("openapiadapter: parse OpenAPI document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return fmt.Errorf("openapiadapter: invalid OpenAPI document: %w", err)
	}
	a.Doc = doc
	return nil
}

func isSwagger2(data []byte) bool {
	var probe struct {
		Swagger string `json:"swagger"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return strings.HasPrefix(probe.Swagger, "2.")
}

func (a *Adapter) loadSwagger2(data []byte) error {
	var doc2 openapi2.T
	if err := json.Unmarshal(data, &doc2); err != nil {
		return fmt.Errorf("openapiadapter: parse Swagger 2.0 document: %w", err)
	}
	doc3, err := openapi2conv.ToV3(&doc2)
	if err != nil {
		return fmt.Errorf("openapiadapter: convert Swagger 2.0 to OpenAPI 3: %w", err)
	}
	a.Doc = doc3
	return nil
}

// Models runs every components.schemas entry through the adapter's
// Processor and merges the resulting model maps by $id, so a schema
// referenced from two different named components collapses to one entry
// just as it would within a single draft-07 document.
func (a *Adapter) Models() (map[string]*model.CommonModel, []simplifier.Warning, error) {
	if a.Doc == nil || a.Doc.Components == nil {
		return map[string]*model.CommonModel{}, nil, nil
	}

	names := sortedSchemaNames(a.Doc.Components.Schemas)

	// Translate every component body once, then make the full set available
	// as shared `definitions` to each per-schema document below, so a $ref
	// from one named schema to a sibling resolves within that single
	// Process call.
	bodies := make(map[string]any, len(names))
	for _, name := range names {
		ref := a.Doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		body, err := translateSchema(ref.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("openapiadapter: translate schema %q: %w", name, err)
		}
		bodies[name] = body
	}

	merged := make(map[string]*model.CommonModel)
	var warnings []simplifier.Warning

	for _, name := range names {
		body, ok := bodies[name]
		if !ok {
			continue
		}
		source, ok := body.(map[string]any)
		if !ok {
			continue
		}
		// Work from a shallow copy: bodies is shared as the `definitions`
		// container below, and must never itself gain a $id/definitions
		// key, or resolving one schema's definitions would recurse into
		// every other schema's definitions forever.
		draft07 := make(map[string]any, len(source)+2)
		for k, v := range source {
			draft07[k] = v
		}
		draft07["$id"] = name
		draft07["definitions"] = bodies

		result, err := a.Processor.Process(draft07)
		if err != nil {
			return nil, nil, fmt.Errorf("openapiadapter: process schema %q: %w", name, err)
		}

		for id, m := range result.Models {
			merged[id] = m
		}
		warnings = append(warnings, result.Warnings...)
	}

	return merged, warnings, nil
}

func sortedSchemaNames(schemas openapi3.Schemas) []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

// translateSchema re-serializes an OpenAPI Schema object into the
// draft-07-shaped JSON fragment the core pipeline understands: "nullable"
// folded into a type union, and $ref targets rewritten from
// "#/components/schemas/X" to "#/definitions/X" so the resolver can
// dereference them against the shared definitions map Models assembles.
func translateSchema(schema *openapi3.Schema) (any, error) {
	raw, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	rewriteComponentRefs(doc)
	foldNullable(doc)

	return doc, nil
}

func rewriteComponentRefs(v any) {
	switch node := v.(type) {
	case map[string]any:
		if ref, ok := node["$ref"].(string); ok {
			node["$ref"] = strings.Replace(ref, "#/components/schemas/", "#/definitions/", 1)
		}
		for _, child := range node {
			rewriteComponentRefs(child)
		}
	case []any:
		for _, child := range node {
			rewriteComponentRefs(child)
		}
	}
}

// foldNullable maps OpenAPI's boolean "nullable" keyword onto draft-07's
// type-union convention, recursively.
func foldNullable(v any) {
	node, ok := v.(map[string]any)
	if !ok {
		return
	}
	if nullable, _ := node["nullable"].(bool); nullable {
		delete(node, "nullable")
		switch t := node["type"].(type) {
		case string:
			node["type"] = []any{t, "null"}
		case []any:
			node["type"] = append(t, "null")
		}
	}
	for _, child := range node {
		foldNullable(child)
	}
}
