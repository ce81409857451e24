package model

import "golang.org/x/text/unicode/norm"

// NFC returns the clip with its ID and URL in Unicode normalization form C.
//
// Hosts hand the engine text in whatever form their platform produces
// (macOS file paths are decomposed). Storing one form keeps equal-looking
// identifiers equal and keeps digests byte-exact.
func (c Clip) NFC() Clip {
	c.ID = norm.NFC.String(c.ID)
	c.URL = norm.NFC.String(c.URL)
	return c
}

// NFC returns a copy of the project with every string in normalization
// form C. The receiver is not modified.
func (p Project) NFC() Project {
	out := p.Clone()
	out.Name = norm.NFC.String(out.Name)
	for i := range out.Timeline.Clips {
		out.Timeline.Clips[i] = out.Timeline.Clips[i].NFC()
	}
	return out
}
