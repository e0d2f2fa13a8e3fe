package models

import (
	"sort"

	"github.com/julianstephens/tracklit/internal/constants"
)

// ValidColor reports whether tag is a palette name.
func ValidColor(tag string) bool {
	_, ok := constants.Palette[tag]
	return ok
}

// NormalizeColor maps unknown or empty tags to the default color.
func NormalizeColor(tag string) string {
	if ValidColor(tag) {
		return tag
	}
	return constants.DefaultColor
}

// ColorHex returns the RGB hex constant for tag, falling back to the default color.
func ColorHex(tag string) string {
	return constants.Palette[NormalizeColor(tag)]
}

// ColorNames returns the palette names sorted alphabetically.
func ColorNames() []string {
	names := make([]string, 0, len(constants.Palette))
	for name := range constants.Palette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
