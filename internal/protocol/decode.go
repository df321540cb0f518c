package protocol

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Mode reports which decoding path produced a result.
type Mode string

const (
	ModeStructured Mode = "structured"
	ModeSegments   Mode = "segments"
	ModeLiteral    Mode = "literal"
)

// Decoded is the output of the payload decoder. Root is only set in
// structured mode and holds the untyped node below the top-level component
// field; it must go through Validate before anything renders it.
type Decoded struct {
	Mode     Mode
	Root     any
	Segments Segments
	Raw      string
}

var (
	thinkingRe = regexp.MustCompile(`(?s)<thinking>(.*?)</thinking>`)
	contentRe  = regexp.MustCompile(`(?s)<content>(.*?)</content>`)
	artifactRe = regexp.MustCompile(`(?s)<artifact>(.*?)</artifact>`)
)

// Decode runs the envelope extractor and the payload decoder over a raw model
// response. It never fails: a response that matches no protocol comes back in
// literal mode.
func Decode(raw string) Decoded {
	if root, ok := decodeJSON(ExtractPayload(raw)); ok {
		return Decoded{Mode: ModeStructured, Root: root, Raw: raw}
	}
	// The legacy tags are searched in the untouched response, not the
	// unescaped payload.
	seg := Segments{
		Thinking: firstSegment(thinkingRe, raw),
		Content:  firstSegment(contentRe, raw),
		Artifact: firstSegment(artifactRe, raw),
	}
	if seg != (Segments{}) {
		return Decoded{Mode: ModeSegments, Segments: seg, Raw: raw}
	}
	return Decoded{Mode: ModeLiteral, Raw: raw}
}

func decodeJSON(payload string) (any, bool) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, false
	}
	root, ok := doc["component"]
	if !ok || root == nil {
		return nil, false
	}
	// A bare node ({"component":"Card","props":{...}}) is accepted as its own
	// root instead of being reported as an unrecognized string.
	if _, isName := root.(string); isName {
		return doc, true
	}
	return root, true
}

func firstSegment(re *regexp.Regexp, raw string) string {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
