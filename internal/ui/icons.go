package ui

import "strings"

// IconSet maps model icon names to what a surface can draw. Unknown or empty
// names resolve to Fallback.
type IconSet struct {
	Name     string
	Glyphs   map[string]string
	Fallback string
}

// Lookup resolves an icon name. Matching ignores case and surrounding space.
func (s IconSet) Lookup(name string) string {
	if g, ok := s.Glyphs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return g
	}
	return s.Fallback
}

// FeatherIcons resolves to Feather vector font names, for web and mobile
// clients.
var FeatherIcons = IconSet{
	Name: "feather",
	Glyphs: map[string]string{
		"help-circle":  "help-circle",
		"compass":      "compass",
		"star":         "star",
		"heart":        "heart",
		"check":        "check",
		"info":         "info",
		"alert":        "alert-triangle",
		"settings":     "settings",
		"user":         "user",
		"search":       "search",
		"shield":       "shield",
		"shield-check": "shield",
		"zap":          "zap",
		"droplets":     "droplet",
		"flower":       "sun",
		"leaf":         "feather",
		"security":     "lock",
		"medical":      "activity",
		"nature":       "sun",
	},
	Fallback: "circle",
}

// EmojiIcons resolves to single glyphs for text surfaces.
var EmojiIcons = IconSet{
	Name: "emoji",
	Glyphs: map[string]string{
		"help-circle":  "❓",
		"compass":      "🧭",
		"star":         "⭐",
		"heart":        "❤️",
		"check":        "✅",
		"info":         "ℹ️",
		"alert":        "⚠️",
		"settings":     "⚙️",
		"user":         "👤",
		"search":       "🔍",
		"shield":       "🛡️",
		"shield-check": "🛡️",
		"zap":          "⚡",
		"droplets":     "💧",
		"flower":       "🌸",
		"leaf":         "🍃",
		"security":     "🔒",
		"medical":      "🩺",
		"nature":       "🌿",
	},
	Fallback: "•",
}

// IconSetFor picks a set by surface name. Anything that is not a text surface
// gets FeatherIcons.
func IconSetFor(surface string) IconSet {
	switch strings.ToLower(surface) {
	case "terminal", "tui", "telegram", "emoji", "text":
		return EmojiIcons
	}
	return FeatherIcons
}

var calloutGlyphs = map[string]string{
	"info":    "ℹ️",
	"success": "✓",
	"warning": "⚠️",
	"danger":  "✕",
}

const (
	thinkingGlyph = "💭"
	artifactGlyph = "📄"
)
