package ui

import "github.com/swarajpanmand/encode-ai-native-health/internal/protocol"

// Rendered is a raw model response after decoding, validation and
// interpretation. Summary is nil unless the response was structured.
type Rendered struct {
	Mode    protocol.Mode
	Tree    *Element
	Summary *Summary
}

// Render runs raw through the whole pipeline with the given icon set.
func Render(raw string, icons IconSet) Rendered {
	decoded := protocol.Decode(raw)
	root := protocol.Validate(decoded)
	r := Rendered{
		Mode: decoded.Mode,
		Tree: Interpret(root, Options{Icons: icons}),
	}
	if decoded.Mode == protocol.ModeStructured {
		s := Summarize(root)
		r.Summary = &s
	}
	return r
}
