package term

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

// cellsPerPoint converts layout widths into terminal cells.
const cellsPerPoint = 8

var upper = cases.Upper(language.Und)

// CellWidth is the terminal width of column i. Like ui.ColumnWidth it
// depends only on the index.
func CellWidth(i int) int {
	return ui.ColumnWidth(i) / cellsPerPoint
}

func (r *Renderer) table(e *ui.Element) string {
	var lines []string
	if len(e.Header) > 0 {
		cells := make([]string, len(e.Columns))
		for i := range e.Columns {
			var text string
			if i < len(e.Header) {
				text = upper.String(cellText(e.Header[i]))
			}
			cells[i] = fit(text, CellWidth(i))
		}
		lines = append(lines, r.theme.TableHeader.Render(strings.Join(cells, " │ ")))
		rule := make([]string, len(e.Columns))
		for i := range e.Columns {
			rule[i] = strings.Repeat("─", CellWidth(i))
		}
		lines = append(lines, r.theme.Muted.Render(strings.Join(rule, "─┼─")))
	}
	for _, row := range e.Rows {
		cells := make([]string, len(e.Columns))
		for i := range e.Columns {
			var text string
			if i < len(row.Cells) {
				text = cellText(row.Cells[i])
			}
			cells[i] = fit(text, CellWidth(i))
		}
		style := r.theme.BandEven
		if row.Band == ui.BandOdd {
			style = r.theme.BandOdd
		}
		lines = append(lines, style.Render(strings.Join(cells, " │ ")))
	}
	return strings.Join(lines, "\n")
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

func cellText(c ui.Cell) string {
	if c.Element == nil {
		return c.Text
	}
	return inline(c.Element)
}

// inline flattens an element into one line of plain text for a table cell.
func inline(e *ui.Element) string {
	switch e.Type {
	case ui.TypeIcon:
		return e.Glyph
	case ui.TypeButton:
		return "[" + e.Text + "]"
	case ui.TypePlaceholder:
		return "⚠ " + e.Text
	}
	parts := make([]string, 0, 3+len(e.Children))
	for _, s := range []string{e.Glyph, e.Title, e.Text} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	for _, c := range e.Children {
		if s := inline(c); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
