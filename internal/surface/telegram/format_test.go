package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

const answerJSON = `{"component":{"component":"Card","props":{"children":[` +
	`{"component":"Header","props":{"title":"Oat Milk","subtitle":"Barista <edition>"}},` +
	`{"component":"TextContent","props":{"textMarkdown":"**Bottom line:** fine most days & cheap"}},` +
	`{"component":"CalloutV2","props":{"variant":"warning","title":"Added sugar","description":"7g per cup"}},` +
	`{"component":"Table","props":{"tableHeader":["Nutrient","Amount"],"tableBody":[["Sugar","7g"],["Fibre","2g"]]}},` +
	`{"component":"Accordion","props":{"children":[{"value":"ing","trigger":"Ingredients","content":[` +
	`{"component":"TextContent","props":{"textMarkdown":"Oats, water, rapeseed oil"}},` +
	`{"component":"Button","props":{"children":"Is rapeseed oil ok?"}}]}]}},` +
	`{"component":"TagBlock","props":{"children":[{"text":"plant based","variant":"success"}]}},` +
	`{"component":"Bogus"},` +
	`{"component":"ButtonGroup","props":{"children":[{"component":"Button","props":{"children":"Is this safe for kids?","name":"kids"}}]}}` +
	`]}}}`

func TestFormat_Structured(t *testing.T) {
	a := prepare(answerJSON)
	out := Format(a.tree, a.state)

	for _, want := range []string{
		"<b>Oat Milk</b>",
		"<i>Barista &lt;edition&gt;</i>",
		"<b>Bottom line:</b> fine most days &amp; cheap",
		"<b>Added sugar</b>\n7g per cup",
		"<pre>Nutrient | Amount\n",
		"Sugar    | 7g",
		"▸ <b>Ingredients</b>",
		"#plant_based",
		"⚠️ <i>Unknown component: Bogus</i>",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "rapeseed", "closed disclosure content is hidden")
	assert.NotContains(t, out, "Is this safe for kids?", "buttons travel as the keyboard")
}

func TestFormat_OpenDisclosure(t *testing.T) {
	a := prepare(answerJSON)
	a.state.Toggle("ing")
	out := Format(a.tree, a.state)
	assert.Contains(t, out, "▾ <b>Ingredients</b>\nOats, water, rapeseed oil")
}

func TestFormat_LiteralIsEscaped(t *testing.T) {
	a := prepare("5 < 7 & fine")
	assert.Nil(t, a.summary)
	assert.Equal(t, "5 &lt; 7 &amp; fine", a.text())
}

func TestFormat_Segments(t *testing.T) {
	a := prepare("<thinking>checking labels</thinking><content>Looks fine.</content>")
	out := a.text()
	assert.Contains(t, out, "<i>💭 checking labels</i>")
	assert.Contains(t, out, "Looks fine.")
}

func TestAnswerText_SummaryFirst(t *testing.T) {
	a := prepare(answerJSON)
	require.NotNil(t, a.summary)
	out := a.text()
	assert.True(t, strings.HasPrefix(out, "<b>Oat Milk</b>\n<i>Barista &lt;edition&gt;</i>\n"))
	assert.Contains(t, out, "fine most days &amp; cheap\n🔴 High Sugar  ⚪ plant based")
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(ui.Summary{
		Title:   "Cola",
		Verdict: "Treat, not a habit",
		Badges:  []ui.Badge{{Text: "High Sugar", Tone: ui.ToneNegative}, {Text: "vegan", Tone: ui.ToneNeutral}},
	})
	assert.Equal(t, "<b>Cola</b>\nTreat, not a habit\n🔴 High Sugar  ⚪ vegan", out)
}

func TestKeyboard(t *testing.T) {
	a := prepare(answerJSON)
	cbs := callbacks{}
	kb := Keyboard(a.tree, a.state, cbs.register)

	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "▸ Ingredients", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "Is this safe for kids?", kb.InlineKeyboard[1][0].Text)
	require.Len(t, cbs, 2)

	toggle := cbs[*kb.InlineKeyboard[0][0].CallbackData]
	assert.Equal(t, callbackToggle, toggle.kind)
	assert.Equal(t, "ing", toggle.key)

	send := cbs[*kb.InlineKeyboard[1][0].CallbackData]
	assert.Equal(t, callbackSend, send.kind)
	require.NotNil(t, send.action)
	assert.Equal(t, "Is this safe for kids?", send.action.Text)
	for token := range cbs {
		assert.LessOrEqual(t, len(token), 64, "callback data limit")
	}
}

func TestKeyboard_OpenDisclosureExposesNestedButtons(t *testing.T) {
	a := prepare(answerJSON)
	a.state.Toggle("ing")
	kb := Keyboard(a.tree, a.state, callbacks{}.register)

	var labels []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			labels = append(labels, b.Text)
		}
	}
	assert.Equal(t, []string{"▾ Ingredients", "Is rapeseed oil ok?", "Is this safe for kids?"}, labels)
}

func TestKeyboard_HorizontalGroupSharesRow(t *testing.T) {
	a := prepare(`{"component":{"component":"ButtonGroup","props":{"variant":"horizontal","children":[` +
		`{"component":"Button","props":{"children":"Yes"}},{"component":"Button","props":{"children":"No"}}]}}}`)
	kb := Keyboard(a.tree, a.state, callbacks{}.register)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Len(t, kb.InlineKeyboard[0], 2)
}

func TestKeyboard_SkipsButtonsWithoutText(t *testing.T) {
	a := prepare(`{"component":{"component":"Card","props":{"children":[` +
		`{"component":"Header","props":{"title":"Hi"}},` +
		`{"component":"Button","props":{"children":""}},` +
		`{"component":"ButtonGroup","props":{"children":[{"component":"Button","props":{"children":"  "}},` +
		`{"component":"Button","props":{"children":"Tell me more"}}]}}]}}}`)
	cbs := callbacks{}
	kb := Keyboard(a.tree, a.state, cbs.register)

	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 1)
	assert.Equal(t, "Tell me more", kb.InlineKeyboard[0][0].Text)
	assert.Len(t, cbs, 1)
}
