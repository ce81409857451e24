package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectDigest_Stable(t *testing.T) {
	p := sampleProject()

	d1, err := ProjectDigest(p)
	require.NoError(t, err)
	d2, err := ProjectDigest(p.Clone())
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64, "hex-encoded SHA-256")
}

func TestProjectDigest_SurvivesDocumentRoundTrip(t *testing.T) {
	p := sampleProject()

	data, err := MarshalProject(p)
	require.NoError(t, err)
	loaded, err := UnmarshalProject(data)
	require.NoError(t, err)

	assert.Equal(t, MustProjectDigest(p), MustProjectDigest(loaded))
}

func TestProjectDigest_SensitiveToEveryField(t *testing.T) {
	base := sampleProject()
	baseDigest := MustProjectDigest(base)

	mutations := map[string]func(p *Project){
		"name":        func(p *Project) { p.Name = "Other" },
		"modified_at": func(p *Project) { p.Touch(p.ModifiedAt.Add(time.Millisecond)) },
		"created_at":  func(p *Project) { p.CreatedAt = p.CreatedAt.Add(time.Second) },
		"clip order": func(p *Project) {
			p.Timeline.Clips[0], p.Timeline.Clips[1] = p.Timeline.Clips[1], p.Timeline.Clips[0]
		},
		"in_point": func(p *Project) { p.Timeline.Clips[1].InPoint++ },
		"url":      func(p *Project) { p.Timeline.Clips[0].URL = "file:///other.mov" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := base.Clone()
			mutate(&p)
			assert.NotEqual(t, baseDigest, MustProjectDigest(p))
		})
	}
}

func TestProjectDigest_DistinguishesNormalizationForms(t *testing.T) {
	composed := sampleProject()
	composed.Timeline.Clips[0].URL = "file:///Users/x/Caf\u00e9.mov"
	decomposed := composed.Clone()
	decomposed.Timeline.Clips[0].URL = "file:///Users/x/Cafe\u0301.mov"

	assert.NotEqual(t, MustProjectDigest(composed), MustProjectDigest(decomposed))
	assert.Equal(t, MustProjectDigest(composed), MustProjectDigest(decomposed.NFC()))
}
