package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DocumentError reports why a project document was rejected.
type DocumentError struct {
	// Field is the JSON path of the offending field, e.g. "timeline.clips[2].in_point".
	Field string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause (optional).
	Err error
}

func (e *DocumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("project document: %s", e.Message)
	}
	return fmt.Sprintf("project document: %s: %s", e.Field, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// IsDocumentError returns true if err is (or wraps) a DocumentError.
func IsDocumentError(err error) bool {
	var de *DocumentError
	return errors.As(err, &de)
}

// Wire shapes with pointer fields so that absent fields can be told apart
// from zero values. Unknown fields are ignored.
type projectDoc struct {
	Name       *string      `json:"name"`
	Timeline   *timelineDoc `json:"timeline"`
	CreatedAt  *string      `json:"created_at"`
	ModifiedAt *string      `json:"modified_at"`
}

type timelineDoc struct {
	Clips *[]clipDoc `json:"clips"`
}

type clipDoc struct {
	ID       *string `json:"id"`
	URL      *string `json:"url"`
	InPoint  *uint64 `json:"in_point"`
	OutPoint *uint64 `json:"out_point"`
}

// MarshalProject serializes a project to the interchange document.
// Output is indented JSON with fields name, timeline.clips[], created_at, modified_at.
func MarshalProject(p Project) ([]byte, error) {
	if p.Timeline.Clips == nil {
		p.Timeline.Clips = []Clip{}
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.ModifiedAt = p.ModifiedAt.UTC()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal project: %w", err)
	}
	return data, nil
}

// UnmarshalProject parses an interchange document.
//
// Every documented field must be present. Clips must satisfy
// in_point < out_point. On failure a *DocumentError is returned and the
// zero Project must not be used.
func UnmarshalProject(data []byte) (Project, error) {
	// json.Unmarshal rejects anything but whitespace after the document.
	var doc projectDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Project{}, &DocumentError{Message: "malformed JSON", Err: err}
	}

	if doc.Name == nil {
		return Project{}, missing("name")
	}
	if doc.Timeline == nil {
		return Project{}, missing("timeline")
	}
	if doc.Timeline.Clips == nil {
		return Project{}, missing("timeline.clips")
	}
	if doc.CreatedAt == nil {
		return Project{}, missing("created_at")
	}
	if doc.ModifiedAt == nil {
		return Project{}, missing("modified_at")
	}

	createdAt, err := parseTimestamp("created_at", *doc.CreatedAt)
	if err != nil {
		return Project{}, err
	}
	modifiedAt, err := parseTimestamp("modified_at", *doc.ModifiedAt)
	if err != nil {
		return Project{}, err
	}

	clips := make([]Clip, 0, len(*doc.Timeline.Clips))
	for i, cd := range *doc.Timeline.Clips {
		clip, err := cd.toClip(i)
		if err != nil {
			return Project{}, err
		}
		clips = append(clips, clip)
	}

	return Project{
		Name:       *doc.Name,
		Timeline:   Timeline{Clips: clips},
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
	}, nil
}

func (cd clipDoc) toClip(i int) (Clip, error) {
	field := func(name string) string {
		return fmt.Sprintf("timeline.clips[%d].%s", i, name)
	}

	switch {
	case cd.ID == nil:
		return Clip{}, missing(field("id"))
	case cd.URL == nil:
		return Clip{}, missing(field("url"))
	case cd.InPoint == nil:
		return Clip{}, missing(field("in_point"))
	case cd.OutPoint == nil:
		return Clip{}, missing(field("out_point"))
	}

	if *cd.InPoint >= *cd.OutPoint {
		return Clip{}, &DocumentError{
			Field:   field("in_point"),
			Message: fmt.Sprintf("in_point %d must be less than out_point %d", *cd.InPoint, *cd.OutPoint),
		}
	}

	return Clip{
		ID:       *cd.ID,
		URL:      *cd.URL,
		InPoint:  *cd.InPoint,
		OutPoint: *cd.OutPoint,
	}, nil
}

func parseTimestamp(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, &DocumentError{Field: field, Message: "not an ISO-8601 timestamp", Err: err}
	}
	return t.UTC(), nil
}

func missing(field string) *DocumentError {
	return &DocumentError{Field: field, Message: "required field missing"}
}
