package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/splice/internal/model"
)

func validDocument(t *testing.T) []byte {
	t.Helper()
	p := model.NewProject("Demo", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	p.Timeline.Clips = []model.Clip{
		{ID: "c1", URL: "file:///a.mp4", InPoint: 0, OutPoint: 200},
		{ID: "c2", URL: "file:///b.mp4", InPoint: 200, OutPoint: 500},
	}
	data, err := model.MarshalProject(p)
	require.NoError(t, err)
	return data
}

func TestValidateDocument_Valid(t *testing.T) {
	assert.NoError(t, ValidateDocument(validDocument(t)))
}

func TestValidateDocument_EmptyTimeline(t *testing.T) {
	doc := `{
		"name": "Empty",
		"timeline": {"clips": []},
		"created_at": "2026-01-02T03:04:05Z",
		"modified_at": "2026-01-02T03:04:05.123456789+02:00"
	}`
	assert.NoError(t, ValidateDocument([]byte(doc)))
}

func TestValidateDocument_AllowsUnknownFields(t *testing.T) {
	doc := `{
		"name": "Extra",
		"version": 3,
		"timeline": {"clips": [{"id": "a", "url": "u", "in_point": 0, "out_point": 1, "label": "x"}], "fps": 30},
		"created_at": "2026-01-02T03:04:05Z",
		"modified_at": "2026-01-02T03:04:05Z"
	}`
	assert.NoError(t, ValidateDocument([]byte(doc)))
}

func TestValidateDocument_Rejects(t *testing.T) {
	const clipsDoc = `{
		"name": "Bad",
		"timeline": {"clips": [%s]},
		"created_at": "2026-01-02T03:04:05Z",
		"modified_at": "2026-01-02T03:04:05Z"
	}`
	withClip := func(clip string) string {
		return strings.Replace(clipsDoc, "%s", clip, 1)
	}

	tests := []struct {
		name     string
		doc      string
		wantPath string
	}{
		{
			name:     "inverted range",
			doc:      withClip(`{"id": "a", "url": "u", "in_point": 300, "out_point": 100}`),
			wantPath: "timeline.clips.0.out_point",
		},
		{
			name:     "empty range",
			doc:      withClip(`{"id": "a", "url": "u", "in_point": 100, "out_point": 100}`),
			wantPath: "timeline.clips.0.out_point",
		},
		{
			name:     "negative in point",
			doc:      withClip(`{"id": "a", "url": "u", "in_point": -1, "out_point": 100}`),
			wantPath: "timeline.clips.0.in_point",
		},
		{
			name:     "fractional point",
			doc:      withClip(`{"id": "a", "url": "u", "in_point": 0, "out_point": 1.5}`),
			wantPath: "timeline.clips.0.out_point",
		},
		{
			name:     "id not a string",
			doc:      withClip(`{"id": 7, "url": "u", "in_point": 0, "out_point": 1}`),
			wantPath: "timeline.clips.0.id",
		},
		{
			name:     "missing name",
			doc:      `{"timeline": {"clips": []}, "created_at": "2026-01-02T03:04:05Z", "modified_at": "2026-01-02T03:04:05Z"}`,
			wantPath: "name",
		},
		{
			name:     "bad timestamp",
			doc:      `{"name": "x", "timeline": {"clips": []}, "created_at": "yesterday", "modified_at": "2026-01-02T03:04:05Z"}`,
			wantPath: "created_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tt.doc))

			require.Error(t, err)
			require.True(t, IsValidationError(err))
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantPath, ve.Path)
			assert.NotEmpty(t, ve.Message)
		})
	}
}

func TestValidateDocument_MalformedJSON(t *testing.T) {
	err := ValidateDocument([]byte(`{"name": `))

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{Path: "name", Message: "incomplete value string"}
	assert.Equal(t, "name: incomplete value string", err.Error())
}

func TestValidator_AgreesWithUnmarshal(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	docs := [][]byte{
		validDocument(t),
		[]byte(`{"name": "x", "timeline": {"clips": [{"id": "a", "url": "u", "in_point": 5, "out_point": 5}]}, "created_at": "2026-01-02T03:04:05Z", "modified_at": "2026-01-02T03:04:05Z"}`),
		[]byte(`{"name": "x", "timeline": {"clips": []}, "created_at": "2026-01-02T03:04:05Z"}`),
		append(validDocument(t), []byte(` {"name": "y"} trailing`)...),
	}

	for i, doc := range docs {
		_, unmarshalErr := model.UnmarshalProject(doc)
		validateErr := v.Validate("doc.json", doc)
		assert.Equal(t, unmarshalErr == nil, validateErr == nil, "document %d", i)
	}
}

func TestSource(t *testing.T) {
	assert.Contains(t, Source(), "#Project")
}
