package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
)

func TestDefault(t *testing.T) {
	spec, err := Default()
	require.NoError(t, err)
	assert.Equal(t, protocol.Version, spec.Version)

	sys := spec.System()
	assert.Contains(t, sys, "consumer health copilot")
	assert.Contains(t, sys, "Protocol version: "+protocol.Version)
	assert.Contains(t, sys, "- CalloutV2 (variant: info/warning/success/danger, title, description)")
	assert.Contains(t, sys, "'ProfileTile'")
}

func TestSystem_ListsExactlyTheVocabulary(t *testing.T) {
	spec, err := Default()
	require.NoError(t, err)

	_, list, ok := strings.Cut(spec.System(), "Do NOT invent new components.\n")
	require.True(t, ok)
	list, _, _ = strings.Cut(list, "\n\n")

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(list), "\n") {
		name := strings.TrimPrefix(line, "- ")
		name, _, _ = strings.Cut(name, " ")
		names = append(names, name)
	}

	var want []string
	for _, k := range protocol.Kinds() {
		want = append(want, string(k))
	}
	assert.Equal(t, want, names)
}

func TestParse_RejectsUnknownComponent(t *testing.T) {
	_, err := Parse([]byte("persona: hi\ncomponents:\n  Carousel: slides\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Carousel")
}

func TestParse_RejectsForbiddenVocabularyKind(t *testing.T) {
	_, err := Parse([]byte("persona: hi\nforbidden: [Card]\n"))
	assert.Error(t, err)
}

func TestParse_RequiresPersona(t *testing.T) {
	_, err := Parse([]byte("version: x\n"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(p, []byte("version: v9\npersona: Be brief.\ncomponents:\n  Card: box\n"), 0o600))

	spec, err := Load(p)
	require.NoError(t, err)
	sys := spec.System()
	assert.True(t, strings.HasPrefix(sys, "Be brief."))
	assert.Contains(t, sys, "- Card (box)\n")
	assert.Contains(t, sys, "- Header\n")
	assert.Contains(t, sys, "Protocol version: v9")
	assert.NotContains(t, sys, "Do NOT use")
}
