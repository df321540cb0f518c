package ui

import (
	"regexp"
	"strings"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
)

// Tone of a summary badge.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneWarning  Tone = "warning"
	ToneNeutral  Tone = "neutral"
)

type Badge struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

// Summary is the at-a-glance hero shown above a structured answer.
type Summary struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	Verdict  string  `json:"verdict,omitempty"`
	Badges   []Badge `json:"badges,omitempty"`
}

const (
	defaultSummaryTitle = "Health Summary"
	maxBadges           = 3
	tagsPerBlock        = 2
)

var bottomLineRe = regexp.MustCompile(`(?i)bottom line[:\-]?\s*(.*)`)

// Summarize builds a summary from the top-level children of root. Only the
// direct children of a plain container count; nested disclosures, tiles and
// table cells are ignored.
func Summarize(root protocol.Node) Summary {
	s := Summary{Title: defaultSummaryTitle}
	children := topLevel(root)

	var headerSeen, textSeen bool
	for _, c := range children {
		switch v := c.(type) {
		case protocol.Header:
			if headerSeen {
				continue
			}
			headerSeen = true
			if v.Title != "" {
				s.Title = v.Title
			}
			s.Subtitle = v.Subtitle
		case protocol.TextContent:
			if textSeen {
				continue
			}
			textSeen = true
			s.Verdict = Verdict(v.Markdown)
		}
	}
	s.Badges = badges(children)
	return s
}

func topLevel(root protocol.Node) []protocol.Node {
	switch v := root.(type) {
	case protocol.Card:
		return v.Children
	case protocol.MiniCardBlock:
		return v.Children
	case protocol.TagBlock:
		return v.Children
	case protocol.ButtonGroup:
		return v.Children
	}
	return nil
}

// Verdict extracts a one-line verdict from markdown: the text after a
// "bottom line" marker, or else the first sentence.
func Verdict(markdown string) string {
	if markdown == "" {
		return ""
	}
	clean := strings.TrimSpace(strings.ReplaceAll(markdown, "**", ""))
	if m := bottomLineRe.FindStringSubmatch(clean); m != nil && m[1] != "" {
		return m[1]
	}
	first, _, _ := strings.Cut(clean, ".")
	return first + "."
}

func badges(children []protocol.Node) []Badge {
	var all []Badge
	for _, c := range children {
		switch v := c.(type) {
		case protocol.CalloutV2:
			title := strings.ToLower(v.Title)
			switch v.Variant {
			case protocol.CalloutSuccess:
				all = append(all, Badge{Text: "Healthy Choice", Tone: TonePositive})
			case protocol.CalloutWarning, protocol.CalloutDanger:
				switch {
				case strings.Contains(title, "sugar"):
					all = append(all, Badge{Text: "High Sugar", Tone: ToneNegative})
				case strings.Contains(title, "processed"):
					all = append(all, Badge{Text: "Processed", Tone: ToneWarning})
				default:
					all = append(all, Badge{Text: "Caution", Tone: ToneWarning})
				}
			}
		case protocol.TagBlock:
			tags := v.Children
			if len(tags) > tagsPerBlock {
				tags = tags[:tagsPerBlock]
			}
			for _, t := range tags {
				tag, ok := t.(protocol.Tag)
				if !ok || strings.TrimSpace(tag.Text) == "" {
					continue
				}
				all = append(all, Badge{Text: tag.Text, Tone: tagTone(tag.Variant)})
			}
		}
	}

	// A later badge with the same text replaces the tone but keeps the
	// position of the first.
	var out []Badge
	pos := make(map[string]int)
	for _, b := range all {
		if i, ok := pos[b.Text]; ok {
			out[i] = b
			continue
		}
		pos[b.Text] = len(out)
		out = append(out, b)
	}
	if len(out) > maxBadges {
		out = out[:maxBadges]
	}
	return out
}

func tagTone(variant string) Tone {
	switch variant {
	case protocol.TagDanger:
		return ToneNegative
	case protocol.TagWarning:
		return ToneWarning
	}
	return ToneNeutral
}
