// Package scenario runs YAML-described editing sessions against the engine
// and checks their outcome.
//
// A scenario is a list of steps (engine commands plus the lifecycle steps
// new_project, load_project, close_project and mark_saved), optional
// per-step expectations, and final assertions. Every run uses a fresh
// in-memory journal, a step clock starting at testutil.Epoch that advances
// one second per edit, and sequential IDs, so split IDs, timestamps and
// golden snapshots are identical across runs.
//
// After the last step the runner replays the journal and fails the scenario
// if the replayed project digest differs from the live one.
//
// Example:
//
//	name: cut_middle
//	description: Cutting a clip keeps total duration
//	steps:
//	  - kind: add_clip
//	    args: {clip: {id: a, url: "file:///a.mp4", in_point: 0, out_point: 400}, index: 0}
//	  - kind: cut_clip
//	    args: {index: 0, position: 100}
//	    expect: {clip_count: 2, duration_ms: 400}
//	assertions:
//	  - type: clip
//	    index: 1
//	    in_point: 100
package scenario
