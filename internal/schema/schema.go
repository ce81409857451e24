// Package schema validates project documents against an embedded CUE schema.
//
// Validation is stricter than model.UnmarshalProject about presentation
// (it reports every field with a source position) but agrees with it on
// which documents are acceptable: required fields, non-negative integer
// points, in_point < out_point, RFC 3339 timestamps and nothing after the
// document. Unknown fields are allowed by both.
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed project.cue
var projectCUE string

// Source returns the CUE schema text.
func Source() string {
	return projectCUE
}

// ValidationError reports the first schema violation in a document.
type ValidationError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, "%s:%d:%d: ", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	}
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// IsValidationError returns true if err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validator checks documents against #Project.
//
// Thread-safety: a cue.Context is not safe for concurrent use, so Validate
// serializes callers.
type Validator struct {
	mu      sync.Mutex
	ctx     *cue.Context
	project cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(projectCUE, cue.Filename("project.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	project := v.LookupPath(cue.ParsePath("#Project"))
	if err := project.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Project: %w", err)
	}

	return &Validator{ctx: ctx, project: project}, nil
}

// Validate checks a JSON document. name labels positions in errors.
// Returns nil or a *ValidationError.
func (v *Validator) Validate(name string, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	expr, err := cuejson.Extract(name, data)
	if err != nil {
		return formatCUEError(err, "malformed JSON")
	}

	doc := v.ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return formatCUEError(err, "malformed document")
	}

	unified := v.project.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err, "invalid document")
	}
	return nil
}

var defaultValidator = sync.OnceValues(NewValidator)

// ValidateDocument checks data against the project schema using a shared
// validator.
func ValidateDocument(data []byte) error {
	v, err := defaultValidator()
	if err != nil {
		return err
	}
	return v.Validate("project.json", data)
}

// formatCUEError converts the first CUE error to a ValidationError.
func formatCUEError(err error, fallback string) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Message: fmt.Sprintf("%s: %v", fallback, err)}
	}

	first := errs[0]
	format, args := first.Msg()
	ve := &ValidationError{
		Path:    strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
	}
	if positions := errors.Positions(first); len(positions) > 0 {
		ve.Pos = positions[0]
	}
	return ve
}
