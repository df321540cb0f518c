package ui

import "regexp"

var boldRe = regexp.MustCompile(`\*\*(.*?)\*\*`)

// Spans splits markdown into plain and bold runs on **bold** markers. Bold
// runs do not cross line breaks. Empty runs are dropped.
func Spans(markdown string) []Span {
	var out []Span
	last := 0
	for _, m := range boldRe.FindAllStringSubmatchIndex(markdown, -1) {
		if m[0] > last {
			out = append(out, Span{Text: markdown[last:m[0]]})
		}
		if m[3] > m[2] {
			out = append(out, Span{Text: markdown[m[2]:m[3]], Bold: true})
		}
		last = m[1]
	}
	if last < len(markdown) {
		out = append(out, Span{Text: markdown[last:]})
	}
	return out
}
