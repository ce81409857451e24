package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/model"
)

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// readDocument reads a project document. A missing or unreadable file is a
// command error, not a document error.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", path), err)
	}
	return data, nil
}

// writeDocument writes data to path with a trailing newline.
func writeDocument(path string, data []byte) error {
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// decodeDocument decodes data and returns the project with its digest.
func decodeDocument(data []byte) (model.Project, string, error) {
	p, err := model.UnmarshalProject(data)
	if err != nil {
		return model.Project{}, "", err
	}
	digest, err := model.ProjectDigest(p)
	if err != nil {
		return model.Project{}, "", err
	}
	return p, digest, nil
}

// DocumentResult describes a project document produced by new or apply.
type DocumentResult struct {
	Name       string          `json:"name"`
	Clips      int             `json:"clips"`
	DurationMS uint64          `json:"duration_ms"`
	Digest     string          `json:"digest"`
	Output     string          `json:"output,omitempty"`
	Document   json.RawMessage `json:"document,omitempty"`
}

// emitDocument writes the document to res.Output when set, otherwise to
// stdout. In JSON mode without an output file the document is embedded in
// the response.
func emitDocument(opts *RootOptions, cmd *cobra.Command, res DocumentResult, data []byte, sessionID string) error {
	if res.Output != "" {
		if err := writeDocument(res.Output, data); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		if res.Output == "" {
			res.Document = json.RawMessage(data)
		}
		return encodeResponse(w, CLIResponse{Status: "ok", Data: res, SessionID: sessionID})
	}

	if res.Output == "" {
		fmt.Fprintln(w, string(data))
		return nil
	}
	fmt.Fprintf(w, "✓ %s: %q, %d clip(s), %dms\n", res.Output, res.Name, res.Clips, res.DurationMS)
	return nil
}
