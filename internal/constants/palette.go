package constants

// DefaultColor is the fallback ColorTag
const DefaultColor = "default"

// Palette maps every ColorTag name to its RGB hex value.
var Palette = map[string]string{
	DefaultColor: "#4A90E2",
	"red":        "#E74C3C",
	"orange":     "#E67E22",
	"amber":      "#F5A623",
	"yellow":     "#F1C40F",
	"lime":       "#A4D233",
	"green":      "#2ECC71",
	"emerald":    "#16A085",
	"teal":       "#1ABC9C",
	"cyan":       "#17BEBB",
	"sky":        "#5DADE2",
	"blue":       "#3498DB",
	"indigo":     "#3F51B5",
	"violet":     "#8E44AD",
	"purple":     "#9B59B6",
	"fuchsia":    "#D63AF9",
	"pink":       "#E91E63",
	"rose":       "#F06292",
	"brown":      "#8D6E63",
	"slate":      "#607D8B",
	"gray":       "#95A5A6",
}
