package domain

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// namedColors is the closed set of recognized color names. Requests using a
// name outside this table are rejected rather than passed through, so typos
// surface as InvalidTextBlock instead of silently rendering black.
var namedColors = map[string]color.RGBA{
	"white":  {255, 255, 255, 255},
	"black":  {0, 0, 0, 255},
	"red":    {220, 20, 40, 255},
	"green":  {30, 160, 60, 255},
	"blue":   {30, 90, 220, 255},
	"yellow": {250, 220, 30, 255},
	"orange": {250, 150, 20, 255},
	"purple": {140, 60, 190, 255},
	"gray":   {128, 128, 128, 255},
	"grey":   {128, 128, 128, 255},
}

// ParseColor resolves a color name or a #rrggbb hex string.
func ParseColor(s string) (color.RGBA, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[key]; ok {
		return c, nil
	}
	if strings.HasPrefix(key, "#") && len(key) == 7 {
		var r, g, b uint8
		if _, err := fmt.Sscanf(key, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{r, g, b, 255}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("unrecognized color %q", s)
}

// ColorNames returns the recognized color names in sorted order, for schema
// and error messages.
func ColorNames() []string {
	names := make([]string, 0, len(namedColors))
	for n := range namedColors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
