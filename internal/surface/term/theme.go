package term

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

// Theme holds the styles of the terminal surface.
type Theme struct {
	Card        lipgloss.Style
	Title       lipgloss.Style
	Heading     lipgloss.Style
	Muted       lipgloss.Style
	Bold        lipgloss.Style
	Placeholder lipgloss.Style
	Thinking    lipgloss.Style
	Artifact    lipgloss.Style
	Button      lipgloss.Style
	Focused     lipgloss.Style
	TableHeader lipgloss.Style
	BandEven    lipgloss.Style
	BandOdd     lipgloss.Style
	Verdict     lipgloss.Style

	Callouts map[string]lipgloss.Style
	Tags     map[string]lipgloss.Style
	Badges   map[ui.Tone]lipgloss.Style
}

func NewTheme(r *lipgloss.Renderer) Theme {
	teal := lipgloss.Color("#14b8a6")
	text := lipgloss.Color("#f1f5f9")
	muted := lipgloss.Color("#94a3b8")
	green := lipgloss.Color("#22c55e")
	blue := lipgloss.Color("#38bdf8")
	amber := lipgloss.Color("#f59e0b")
	red := lipgloss.Color("#ef4444")
	slate := lipgloss.Color("#334155")

	callout := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).BorderTop(false).BorderRight(false).BorderBottom(false).
			BorderForeground(c).
			PaddingLeft(1)
	}
	tag := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Foreground(c).Bold(true)
	}

	return Theme{
		Card: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(teal).
			Padding(0, 1),
		Title:   r.NewStyle().Foreground(text).Bold(true),
		Heading: r.NewStyle().Foreground(teal).Bold(true),
		Muted:   r.NewStyle().Foreground(muted),
		Bold:    r.NewStyle().Bold(true),
		Placeholder: r.NewStyle().
			Foreground(amber).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(amber).
			Padding(0, 1),
		Thinking: r.NewStyle().Foreground(muted).Italic(true),
		Artifact: r.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(slate).
			Padding(0, 1),
		Button:      r.NewStyle().Foreground(teal),
		Focused:     r.NewStyle().Foreground(lipgloss.Color("#0f172a")).Background(teal).Bold(true),
		TableHeader: r.NewStyle().Foreground(teal).Bold(true),
		BandEven:    r.NewStyle(),
		BandOdd:     r.NewStyle().Background(lipgloss.Color("#1e293b")),
		Verdict:     r.NewStyle().Foreground(text).Italic(true),

		Callouts: map[string]lipgloss.Style{
			protocol.CalloutInfo:    callout(blue),
			protocol.CalloutSuccess: callout(green),
			protocol.CalloutWarning: callout(amber),
			protocol.CalloutDanger:  callout(red),
		},
		Tags: map[string]lipgloss.Style{
			protocol.TagSuccess: tag(green),
			protocol.TagInfo:    tag(blue),
			protocol.TagWarning: tag(amber),
			protocol.TagDanger:  tag(red),
			protocol.TagNeutral: tag(muted),
		},
		Badges: map[ui.Tone]lipgloss.Style{
			ui.TonePositive: tag(green),
			ui.ToneNegative: tag(red),
			ui.ToneWarning:  tag(amber),
			ui.ToneNeutral:  tag(muted),
		},
	}
}
