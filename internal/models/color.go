package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a tracker colour in "#RRGGBB" form.
type Color string

// Palette is the selection offered when creating a tracker.
var Palette = []Color{
	"#FD4C49", "#FF881E", "#007BFA", "#6E44FE", "#33CF69", "#E66DD4",
	"#F9D4D4", "#34A7FE", "#46E69D", "#35347C", "#FF674D", "#FF99CC",
	"#F6C48B", "#7994F5", "#832CF1", "#AD56DA", "#8D72E6", "#2FD058",
}

// EmojiPalette is the emoji selection offered when creating a tracker.
var EmojiPalette = []string{
	"🙂", "😻", "🌺", "🐶", "❤️", "😱", "😇", "😡", "🥶",
	"🤔", "🙌", "🍔", "🥦", "🏓", "🥇", "🎸", "🏝", "😪",
}

// DefaultColor is used when no colour is given.
const DefaultColor Color = "#FD4C49"

// ParseColor accepts "#RRGGBB" or "RRGGBB" (any case) and returns the
// normalised upper case form.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return "", fmt.Errorf("invalid color %q: expected #RRGGBB", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color("#" + strings.ToUpper(hex)), nil
}

// RGB returns the colour components. Malformed colours decode as black.
func (c Color) RGB() (r, g, b uint8) {
	v, err := strconv.ParseUint(strings.TrimPrefix(string(c), "#"), 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

func (c Color) String() string {
	return string(c)
}
