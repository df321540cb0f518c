package term

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

const answer = `{"component":{"component":"Card","props":{"children":[` +
	`{"component":"Header","props":{"title":"Oat Milk","subtitle":"Barista edition"}},` +
	`{"component":"TextContent","props":{"textMarkdown":"**Bottom line:** fine most days"}},` +
	`{"component":"CalloutV2","props":{"variant":"warning","title":"Added sugar","description":"7g per cup"}},` +
	`{"component":"Table","props":{"tableHeader":["Nutrient","Amount"],"tableBody":[["Sugar","7g"],["Fibre","2g"]]}},` +
	`{"component":"Accordion","props":{"children":[{"value":"ing","trigger":"Ingredients","content":[` +
	`{"component":"TextContent","props":{"textMarkdown":"Oats, water, rapeseed oil"}},` +
	`{"component":"Button","props":{"children":"Is rapeseed oil ok?"}}]}]}},` +
	`{"component":"Bogus"},` +
	`{"component":"ButtonGroup","props":{"children":[{"component":"Button","props":{"children":"Is this safe for kids?","name":"kids"}}]}}` +
	`]}}}`

func newTestRenderer() *Renderer {
	return New(WithLipgloss(lipgloss.NewRenderer(io.Discard)), WithWidth(80))
}

func TestRenderResponse_Literal(t *testing.T) {
	r := newTestRenderer()
	out, tree := r.RenderResponse("Just some text\n  kept as is", View{})
	assert.Equal(t, "Just some text\n  kept as is", out)
	assert.Equal(t, ui.RoleLiteral, tree.Role)
}

func TestRenderResponse_Segments(t *testing.T) {
	r := newTestRenderer()
	out, _ := r.RenderResponse("<thinking>checking labels</thinking><content>Looks fine.</content><artifact>Label text</artifact>", View{})
	assert.Contains(t, out, "checking labels")
	assert.Contains(t, out, "Looks fine.")
	assert.Contains(t, out, "Document")
	assert.Contains(t, out, "Label text")
}

func TestRenderResponse_Structured(t *testing.T) {
	r := newTestRenderer()
	out, tree := r.RenderResponse(answer, View{})

	for _, want := range []string{
		"Oat Milk",
		"Barista edition",
		"fine most days",
		"Added sugar",
		"7g per cup",
		"NUTRIENT",
		"▸ Ingredients",
		"Unknown component: Bogus",
		"[ Is this safe for kids? ]",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "rapeseed", "closed disclosure content is hidden")
	assert.Equal(t, ui.RoleCard, tree.Role)
}

func TestRender_OpenDisclosure(t *testing.T) {
	r := newTestRenderer()
	state := &ui.AccordionState{}
	_, tree := r.RenderResponse(answer, View{State: state})

	state.Toggle("ing")
	out := r.Render(tree, View{State: state})
	assert.Contains(t, out, "▾ Ingredients")
	assert.Contains(t, out, "Oats, water, rapeseed oil")
	assert.Contains(t, out, "[ Is rapeseed oil ok? ]")
}

func TestFocusables(t *testing.T) {
	r := newTestRenderer()
	state := &ui.AccordionState{}
	_, tree := r.RenderResponse(answer, View{State: state})

	labels := func() []string {
		var out []string
		for _, e := range Focusables(tree, state) {
			if e.Type == ui.TypeButton {
				out = append(out, e.Text)
				continue
			}
			out = append(out, e.Key)
		}
		return out
	}
	assert.Equal(t, []string{"ing", "Is this safe for kids?"}, labels())

	state.Toggle("ing")
	assert.Equal(t, []string{"ing", "Is rapeseed oil ok?", "Is this safe for kids?"}, labels())
}

func TestRender_FocusMarker(t *testing.T) {
	r := newTestRenderer()
	_, tree := r.RenderResponse(answer, View{})
	focus := Focusables(tree, nil)
	require.Len(t, focus, 2)

	out := r.Render(tree, View{Focused: focus[1]})
	assert.Contains(t, out, "› [ Is this safe for kids? ]")
	assert.NotContains(t, out, "› ▸ Ingredients")
}

func TestTableCells(t *testing.T) {
	assert.Equal(t, 17, CellWidth(0))
	assert.Equal(t, 10, CellWidth(1))
	assert.Equal(t, 15, CellWidth(2))
	assert.Equal(t, 12, CellWidth(3))
	assert.Equal(t, 12, CellWidth(9))

	assert.Equal(t, "abc       ", fit("abc", 10))
	assert.Equal(t, "Sugar con…", fit("Sugar content high", 10))
	assert.Equal(t, 10, lipgloss.Width(fit("糖分が多い食品です", 10)))
}

func TestTable_RowsHaveFixedWidth(t *testing.T) {
	r := newTestRenderer()
	out, _ := r.RenderResponse(`{"component":{"component":"Table","props":{"tableHeader":["Nutrient","Amount"],`+
		`"tableBody":[["Sugar","7g"],["A much longer nutrient name","1000000000000g"]]}}}`, View{})

	lines := strings.Split(out, "\n")
	var widths []int
	for _, l := range lines {
		if strings.Contains(l, "│") {
			widths = append(widths, lipgloss.Width(l))
		}
	}
	require.Len(t, widths, 3)
	assert.Equal(t, widths[0], widths[1])
	assert.Equal(t, widths[0], widths[2])
}

func TestSummary(t *testing.T) {
	r := newTestRenderer()
	out := r.Summary(ui.Summary{
		Title:   "Oat Milk",
		Verdict: "fine most days",
		Badges:  []ui.Badge{{Text: "Caution", Tone: ui.ToneWarning}},
	})
	assert.True(t, strings.HasPrefix(out, "Oat Milk\n"))
	assert.Contains(t, out, "● Caution")
}
