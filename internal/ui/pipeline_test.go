package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

func TestRender_Modes(t *testing.T) {
	structured := ui.Render(`{"component":{"component":"Card","props":{"children":[`+
		`{"component":"Header","props":{"title":"Kale"}},`+
		`{"component":"List","props":{"variant":"icon","items":[{"title":"Iron","iconName":"leaf"}]}}]}}}`, ui.EmojiIcons)
	assert.Equal(t, protocol.ModeStructured, structured.Mode)
	require.NotNil(t, structured.Summary)
	assert.Equal(t, "Kale", structured.Summary.Title)
	assert.Equal(t, ui.RoleCard, structured.Tree.Role)

	segments := ui.Render("<content>Looks fine.</content>", ui.EmojiIcons)
	assert.Equal(t, protocol.ModeSegments, segments.Mode)
	assert.Nil(t, segments.Summary)
	assert.Equal(t, ui.RoleSegments, segments.Tree.Role)

	literal := ui.Render("plain words", ui.FeatherIcons)
	assert.Equal(t, protocol.ModeLiteral, literal.Mode)
	assert.Nil(t, literal.Summary)
	assert.Equal(t, "plain words", literal.Tree.Text)
}

func TestRender_IconSetFollowsSurface(t *testing.T) {
	raw := `{"component":{"component":"List","props":{"variant":"icon","items":[{"title":"Iron","iconName":"leaf"}]}}}`
	assert.Equal(t, "🍃", ui.Render(raw, ui.IconSetFor("telegram")).Tree.Children[0].Glyph)
	assert.Equal(t, "feather", ui.Render(raw, ui.IconSetFor("web")).Tree.Children[0].Glyph)
}
