package colors

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a straight-alpha RGBA color with components in [0,1].
type Color [4]float32

var (
	White    = Color{1, 1, 1, 1}
	Black    = Color{0, 0, 0, 1}
	Yellow   = Color{1, 1, 0, 1}
	DarkGray = Color{0.08, 0.10, 0.12, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Parse reads "#rrggbb" or "#rrggbbaa" (leading '#' optional).
func Parse(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		float32(v>>24&0xff) / 255,
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
