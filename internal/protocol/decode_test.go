package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
)

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "no envelope",
			raw:  `{"component":{"component":"Card"}}`,
			want: `{"component":{"component":"Card"}}`,
		},
		{
			name: "envelope with escaped json",
			raw:  "intro <content thesys=\"true\">\n  {&quot;component&quot;:{&quot;component&quot;:&quot;Tag&quot;}}\n</content> outro",
			want: `{"component":{"component":"Tag"}}`,
		},
		{
			name: "multi-line envelope",
			raw:  "<content thesys=\"true\">line one\nline two</content>",
			want: "line one\nline two",
		},
		{
			name: "first envelope wins",
			raw:  `<content thesys="true">a</content><content thesys="true">b</content>`,
			want: "a",
		},
		{
			name: "all entities",
			raw:  "&quot;&lt;b&gt;&#39;x&#39;&amp;",
			want: `"<b>'x'&`,
		},
		{
			name: "sequential unescape",
			raw:  "&amp;lt;",
			want: "<",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, protocol.ExtractPayload(tt.raw))
		})
	}
}

func TestDecode_Structured(t *testing.T) {
	d := protocol.Decode(`{"component":{"component":"Header","props":{"title":"Hi"}}}`)
	require.Equal(t, protocol.ModeStructured, d.Mode)
	root, ok := d.Root.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Header", root["component"])
}

func TestDecode_BareNode(t *testing.T) {
	d := protocol.Decode(`{"component":"Header","props":{"title":"Hi"}}`)
	require.Equal(t, protocol.ModeStructured, d.Mode)
	assert.Equal(t, protocol.Header{Title: "Hi"}, protocol.Validate(d))
}

func TestDecode_Segments(t *testing.T) {
	raw := "<thinking>weighing options</thinking><content>It's fine</content>"
	d := protocol.Decode(raw)
	require.Equal(t, protocol.ModeSegments, d.Mode)
	assert.Equal(t, "weighing options", d.Segments.Thinking)
	assert.Equal(t, "It's fine", d.Segments.Content)
	assert.Empty(t, d.Segments.Artifact)
}

func TestDecode_SegmentsUseOriginalResponse(t *testing.T) {
	// Entities inside the legacy tags must survive: the fallback never sees
	// the unescaped payload.
	raw := "<content>5 &lt; 6</content>\n<artifact>\n  doc body \n</artifact>"
	d := protocol.Decode(raw)
	require.Equal(t, protocol.ModeSegments, d.Mode)
	assert.Equal(t, "5 &lt; 6", d.Segments.Content)
	assert.Equal(t, "doc body", d.Segments.Artifact)
}

func TestDecode_MissingComponentFallsBack(t *testing.T) {
	d := protocol.Decode(`{"answer":"<thinking>hm</thinking>"}`)
	require.Equal(t, protocol.ModeSegments, d.Mode)
	assert.Equal(t, "hm", d.Segments.Thinking)

	d = protocol.Decode(`{"component":null}`)
	assert.Equal(t, protocol.ModeLiteral, d.Mode)
}

func TestDecode_Literal(t *testing.T) {
	for _, raw := range []string{
		"",
		"plain answer",
		"[1,2,3]",
		"{not json",
		"<content>   </content>",
		`<content thesys="true">not json</content>`,
	} {
		d := protocol.Decode(raw)
		assert.Equal(t, protocol.ModeLiteral, d.Mode, raw)
		assert.Equal(t, protocol.Literal{Text: raw}, protocol.Validate(d), raw)
	}
}
