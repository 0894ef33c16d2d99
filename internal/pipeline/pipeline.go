// Package pipeline orchestrates the schema-to-model pipeline: validate →
// reflect → resolve → interpret → simplify (spec §4.5).
package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xseman/modelgen/internal/interpreter"
	"github.com/xseman/modelgen/internal/jsonschema"
	"github.com/xseman/modelgen/internal/model"
	"github.com/xseman/modelgen/internal/reflector"
	"github.com/xseman/modelgen/internal/resolver"
	"github.com/xseman/modelgen/internal/simplifier"
)

// Result is what Process returns: the final model map plus the verbatim
// input, for a downstream renderer to consult (spec §6).
type Result struct {
	Models        map[string]*model.CommonModel
	OriginalInput any
	Warnings      []simplifier.Warning
}

// Processor runs the pipeline with a fixed Config and Logger.
type Processor struct {
	Config Config
	Logger *slog.Logger
}

// NewProcessor builds a Processor, defaulting Logger to slog.Default() when
// none is set on cfg's caller.
func NewProcessor(cfg Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Config: cfg, Logger: logger}
}

// ShouldProcess reports whether input is a boolean or an object whose
// $schema is absent or names a draft in Config.SupportedSchemaDrafts
// (spec §6).
func (p *Processor) ShouldProcess(input any) bool {
	return p.classify(input) == nil
}

// classify returns the reason input cannot be processed, or nil if it can.
func (p *Processor) classify(input any) error {
	switch v := input.(type) {
	case bool:
		return nil
	case map[string]any:
		schemaURI, ok := v["$schema"].(string)
		if !ok || schemaURI == "" {
			return nil
		}
		if !p.Config.supportsDraft(schemaURI) {
			return fmt.Errorf("%w: %s", ErrUnsupportedSchemaDraft, schemaURI)
		}
		return nil
	default:
		return fmt.Errorf("%w: input must be a boolean or an object, got %T", ErrInvalidInput, input)
	}
}

// Process runs the full pipeline against input, an already JSON-decoded
// value (a bool or a map[string]any, as encoding/json would produce).
func (p *Processor) Process(input any) (*Result, error) {
	if err := p.classify(input); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	seed := p.Config.RootSeedName
	if seed == "" {
		seed = DefaultRootSeedName
	}

	p.Logger.Debug("pipeline: reflect", "seed", seed)
	reflector.Reflect(&schema, seed)

	p.Logger.Debug("pipeline: resolve")
	resolved, err := resolver.Resolve(&schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvedReference, err)
	}

	p.Logger.Debug("pipeline: interpret")
	models, err := interpreter.Interpret(resolved, seed)
	if err != nil {
		return nil, err
	}

	p.Logger.Debug("pipeline: simplify", "modelCount", len(models))
	modelMap, warnings, err := simplifier.Simplify(models)
	if err != nil {
		return nil, err
	}

	if len(warnings) > 0 {
		p.Logger.Warn("pipeline: merge conflicts", "count", len(warnings))
		if p.Config.Strict {
			return nil, fmt.Errorf("%w: %v", ErrMergeConflict, warnings)
		}
	}

	p.Logger.Info("pipeline: done", "models", len(modelMap))

	return &Result{
		Models:        modelMap,
		OriginalInput: input,
		Warnings:      warnings,
	}, nil
}
