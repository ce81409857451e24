package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/schema"
)

// ValidationIssue is one schema violation with its source position.
type ValidationIssue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	File   string            `json:"file"`
	Valid  bool              `json:"valid"`
	Name   string            `json:"name,omitempty"`
	Clips  int               `json:"clips,omitempty"`
	Digest string            `json:"digest,omitempty"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project.json>",
		Short: "Check a project document against the schema",
		Long: `Check a project document against the embedded CUE schema without
loading it into an engine.

Exit codes:
  0 - Document is valid
  1 - Document violates the schema
  2 - Command error (unreadable file)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	data, err := readDocument(path)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Validating %s (%d bytes)", path, len(data))

	result := ValidationResult{File: path}
	if err := schema.ValidateDocument(data); err != nil {
		result.Errors = []ValidationIssue{issueFrom(err)}
		return outputValidate(opts, cmd, result)
	}

	p, digest, err := decodeDocument(data)
	if err != nil {
		// The schema and the decoder accept the same documents; this only
		// fires if they drift apart.
		result.Errors = []ValidationIssue{{Message: err.Error()}}
		return outputValidate(opts, cmd, result)
	}

	result.Valid = true
	result.Name = p.Name
	result.Clips = p.Timeline.Len()
	result.Digest = digest
	return outputValidate(opts, cmd, result)
}

func issueFrom(err error) ValidationIssue {
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		return ValidationIssue{Message: err.Error()}
	}
	issue := ValidationIssue{Path: ve.Path, Message: ve.Message}
	if ve.Pos.IsValid() {
		issue.Line = ve.Pos.Line()
		issue.Column = ve.Pos.Column()
	}
	return issue
}

func outputValidate(opts *RootOptions, cmd *cobra.Command, result ValidationResult) error {
	w := cmd.OutOrStdout()

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeInvalidDocument,
				Message: "document violates the project schema",
			}
		}
		if err := encodeResponse(w, resp); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(w, "✓ %s: %q, %d clip(s)\n", result.File, result.Name, result.Clips)
	} else {
		fmt.Fprintf(w, "✗ %s\n", result.File)
		for _, e := range result.Errors {
			switch {
			case e.Line > 0:
				fmt.Fprintf(w, "  line %d: %s: %s\n", e.Line, e.Path, e.Message)
			case e.Path != "":
				fmt.Fprintf(w, "  %s: %s\n", e.Path, e.Message)
			default:
				fmt.Fprintf(w, "  %s\n", e.Message)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%s is not a valid project", result.File))
	}
	return nil
}
