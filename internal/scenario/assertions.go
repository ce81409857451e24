package scenario

import (
	"fmt"
	"slices"

	"github.com/roach88/splice/internal/editor"
)

// matchExpect compares the set fields of want against got.
// Returns one message per mismatch.
func matchExpect(want Expect, got StepState) []string {
	var errs []string
	if want.ClipIDs != nil && !slices.Equal(want.ClipIDs, got.ClipIDs) {
		errs = append(errs, fmt.Sprintf("clip_ids: expected %v, got %v", want.ClipIDs, got.ClipIDs))
	}
	if want.ClipCount != nil && *want.ClipCount != len(got.ClipIDs) {
		errs = append(errs, fmt.Sprintf("clip_count: expected %d, got %d", *want.ClipCount, len(got.ClipIDs)))
	}
	if want.DurationMS != nil && *want.DurationMS != got.DurationMS {
		errs = append(errs, fmt.Sprintf("duration_ms: expected %d, got %d", *want.DurationMS, got.DurationMS))
	}
	if want.PlaybackMS != nil && *want.PlaybackMS != got.PlaybackMS {
		errs = append(errs, fmt.Sprintf("playback_ms: expected %d, got %d", *want.PlaybackMS, got.PlaybackMS))
	}
	if want.Playing != nil && *want.Playing != got.Playing {
		errs = append(errs, fmt.Sprintf("playing: expected %t, got %t", *want.Playing, got.Playing))
	}
	if want.Dirty != nil && *want.Dirty != got.Dirty {
		errs = append(errs, fmt.Sprintf("dirty: expected %t, got %t", *want.Dirty, got.Dirty))
	}
	if want.HasProject != nil && *want.HasProject != got.HasProject {
		errs = append(errs, fmt.Sprintf("has_project: expected %t, got %t", *want.HasProject, got.HasProject))
	}
	return errs
}

// EvaluateAssertions checks every assertion against the editor's final
// state. Returns one message per failed assertion.
func EvaluateAssertions(ed *editor.Editor, result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(ed, result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluate(ed *editor.Editor, result *Result, a Assertion) error {
	switch a.Type {
	case AssertState:
		if msgs := matchExpect(*a.Expect, stateOf(result.Final)); len(msgs) > 0 {
			return fmt.Errorf("%v", msgs)
		}
		return nil
	case AssertClip:
		return assertClip(ed, a)
	case AssertPlayhead:
		return assertPlayhead(ed, result, a)
	case AssertJournalCount:
		if result.JournalEntries != a.Count {
			return fmt.Errorf("expected %d journal entries, got %d", a.Count, result.JournalEntries)
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertClip(ed *editor.Editor, a Assertion) error {
	c, ok := ed.Clip(a.Index)
	if !ok {
		return fmt.Errorf("no clip at index %d", a.Index)
	}
	if a.ID != "" && a.ID != c.ID {
		return fmt.Errorf("id: expected %q, got %q", a.ID, c.ID)
	}
	if a.URL != "" && a.URL != c.URL {
		return fmt.Errorf("url: expected %q, got %q", a.URL, c.URL)
	}
	if a.InPoint != nil && *a.InPoint != c.InPoint {
		return fmt.Errorf("in_point: expected %d, got %d", *a.InPoint, c.InPoint)
	}
	if a.OutPoint != nil && *a.OutPoint != c.OutPoint {
		return fmt.Errorf("out_point: expected %d, got %d", *a.OutPoint, c.OutPoint)
	}
	return nil
}

func assertPlayhead(ed *editor.Editor, result *Result, a Assertion) error {
	at := result.Final.Playback.TimeMS
	if a.AtMS != nil {
		at = *a.AtMS
	}

	got, ok := ed.ClipAt(at)
	if a.None {
		if ok {
			return fmt.Errorf("expected no clip at %dms, got index %d", at, got.Index)
		}
		return nil
	}
	if !ok {
		return fmt.Errorf("expected a clip at %dms, got none", at)
	}
	if got.Index != a.Index {
		return fmt.Errorf("index at %dms: expected %d, got %d", at, a.Index, got.Index)
	}
	if a.SourceMS != nil && *a.SourceMS != got.SourceMS {
		return fmt.Errorf("source_ms at %dms: expected %d, got %d", at, *a.SourceMS, got.SourceMS)
	}
	return nil
}
