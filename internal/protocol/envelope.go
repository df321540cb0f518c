package protocol

import (
	"regexp"
	"strings"
)

var envelopeRe = regexp.MustCompile(`(?s)<content\s+[\w:-]+\s*=\s*"true"\s*>(.*?)</content>`)

// Entities unescaped in the payload, applied one after another in this order.
var entities = []struct{ from, to string }{
	{"&quot;", `"`},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&#39;", "'"},
}

// ExtractPayload returns the text inside the first envelope tag, or the whole
// input when there is none, with HTML entities unescaped.
func ExtractPayload(raw string) string {
	payload := raw
	if m := envelopeRe.FindStringSubmatch(raw); m != nil {
		payload = strings.TrimSpace(m[1])
	}
	return Unescape(payload)
}

// Unescape replaces the fixed entity set. Other entities are left as is.
func Unescape(s string) string {
	for _, e := range entities {
		s = strings.ReplaceAll(s, e.from, e.to)
	}
	return s
}
