package telegram

import (
	"html"
	"regexp"
	"strings"
)

// maxMessageLen is Telegram's limit on the text of one message, counted in
// UTF-16 code units.
const maxMessageLen = 4096

var tagRe = regexp.MustCompile(`<[^>]*>`)

// paginate packs blocks into message texts of at most limit units. Blocks
// are joined by blank lines and kept whole; a block that alone exceeds the
// limit loses its markup and is cut at line or word breaks.
func paginate(blocks []string, limit int) []string {
	var out []string
	var cur string
	flush := func() {
		if cur != "" {
			out = append(out, cur)
			cur = ""
		}
	}
	for _, b := range blocks {
		switch {
		case b == "":
		case textLen(b) > limit:
			flush()
			out = append(out, splitPlain(b, limit)...)
		case cur == "":
			cur = b
		case textLen(cur)+2+textLen(b) <= limit:
			cur += "\n\n" + b
		default:
			flush()
			cur = b
		}
	}
	flush()
	return out
}

// splitPlain strips the markup of an oversized block and cuts its text into
// escaped pieces that each fit in limit.
func splitPlain(block string, limit int) []string {
	plain := html.UnescapeString(tagRe.ReplaceAllString(block, ""))

	var out []string
	var b strings.Builder
	n := 0
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
		n = 0
	}
	add := func(s string) {
		b.WriteString(s)
		n += textLen(s)
	}

	for _, line := range strings.SplitAfter(plain, "\n") {
		for _, word := range strings.SplitAfter(line, " ") {
			w := esc(word)
			wn := textLen(w)
			if n+wn <= limit {
				add(w)
				continue
			}
			flush()
			if wn <= limit {
				add(w)
				continue
			}
			// A single word longer than a message is cut by rune.
			for _, r := range word {
				s := esc(string(r))
				if n+textLen(s) > limit {
					flush()
				}
				add(s)
			}
		}
	}
	flush()
	return out
}

func textLen(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
			continue
		}
		n++
	}
	return n
}
