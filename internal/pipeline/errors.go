package pipeline

import "errors"

// Sentinel errors for the kinds the pipeline surfaces (spec §7). Wrap with
// fmt.Errorf("%w: ...") for context; callers distinguish kinds with
// errors.Is.
var (
	// ErrUnsupportedSchemaDraft is returned when input's $schema names a
	// draft URI not in Config.SupportedSchemaDrafts.
	ErrUnsupportedSchemaDraft = errors.New("unsupported schema draft")

	// ErrUnresolvedReference is returned when a $ref cannot be
	// dereferenced within the document.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrInvalidInput is returned when input is neither a boolean nor an
	// object, or is structurally malformed JSON-Schema.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMergeConflict is returned only when Config.Strict is set and the
	// simplifier recorded at least one merge-conflict warning; otherwise
	// such warnings accumulate in Result.Warnings without failing the run.
	ErrMergeConflict = errors.New("merge conflict")
)
