package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/splice/internal/engine"
)

// Scenario defines one editing session and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ProjectName names the initial project. Empty means the default.
	ProjectName string `yaml:"project_name,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one command or lifecycle action.
type Step struct {
	// Kind is an engine command kind or a lifecycle kind.
	Kind string `yaml:"kind"`

	// Args are decoded with the engine command codec.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect is checked against the state right after this step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Lifecycle step kinds.
const (
	StepNewProject   = "new_project"
	StepLoadProject  = "load_project"
	StepCloseProject = "close_project"
	StepMarkSaved    = "mark_saved"
)

// Expect is a subset match on the editor state. Unset fields are ignored.
type Expect struct {
	ClipIDs    []string `yaml:"clip_ids,omitempty"`
	ClipCount  *int     `yaml:"clip_count,omitempty"`
	DurationMS *uint64  `yaml:"duration_ms,omitempty"`
	PlaybackMS *uint64  `yaml:"playback_ms,omitempty"`
	Playing    *bool    `yaml:"playing,omitempty"`
	Dirty      *bool    `yaml:"dirty,omitempty"`
	HasProject *bool    `yaml:"has_project,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "state": Expect must match the final state
	// - "clip": the clip at Index has the given fields
	// - "playhead": resolving AtMS (default: playhead) yields Index/SourceMS, or nothing when None
	// - "journal_count": the session journal holds exactly Count entries
	Type string `yaml:"type"`

	Expect *Expect `yaml:"expect,omitempty"`

	Index    int     `yaml:"index,omitempty"`
	ID       string  `yaml:"id,omitempty"`
	URL      string  `yaml:"url,omitempty"`
	InPoint  *uint64 `yaml:"in_point,omitempty"`
	OutPoint *uint64 `yaml:"out_point,omitempty"`

	AtMS     *uint64 `yaml:"at_ms,omitempty"`
	SourceMS *uint64 `yaml:"source_ms,omitempty"`
	None     bool    `yaml:"none,omitempty"`

	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertState        = "state"
	AssertClip         = "clip"
	AssertPlayhead     = "playhead"
	AssertJournalCount = "journal_count"
)

// Parse decodes a scenario from YAML.
// Unknown fields (typos) and invalid steps are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// Load reads and parses a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	scenarios := make([]*Scenario, 0, len(files))
	for _, f := range files {
		s, err := Load(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks required fields and decodes every step once so a
// malformed command is reported before anything runs.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Kind == "" {
			return fmt.Errorf("steps[%d]: kind is required", i)
		}
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch step.Kind {
	case StepNewProject, StepCloseProject, StepMarkSaved:
		return nil
	case StepLoadProject:
		if _, ok := step.Args["document"].(string); !ok {
			return fmt.Errorf("load_project requires a document string")
		}
		return nil
	default:
		_, err := engine.DecodeCommand(step.Kind, step.Args)
		return err
	}
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("type is required")
	case AssertState:
		if a.Expect == nil {
			return fmt.Errorf("expect is required for state")
		}
	case AssertClip:
		if a.Index < 0 {
			return fmt.Errorf("index must be non-negative for clip")
		}
	case AssertPlayhead:
		if a.None && a.SourceMS != nil {
			return fmt.Errorf("none and source_ms are mutually exclusive for playhead")
		}
	case AssertJournalCount:
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for journal_count")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
