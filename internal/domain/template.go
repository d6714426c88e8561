package domain

import "image"

// Template is a background image usable as a meme canvas. Templates are
// created once at catalog load time and never mutated afterwards; the
// compositor works on a copy of Pixels, never on Pixels itself.
type Template struct {
	// ID is the stable lookup key, derived from the file name stem
	// (e.g. "drake" for drake.png). Matching is exact and case-sensitive.
	ID string `json:"id"`

	// Path is the file the template was loaded from.
	Path string `json:"-"`

	// Pixels holds the decoded image data.
	Pixels image.Image `json:"-"`

	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}
