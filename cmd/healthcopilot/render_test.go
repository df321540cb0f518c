package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarajpanmand/encode-ai-native-health/internal/types"
)

const sample = `{"component":{"component":"Card","props":{"children":[` +
	`{"component":"Header","props":{"title":"Oat Milk"}},` +
	`{"component":"Accordion","props":{"children":[{"value":"ing","trigger":"Ingredients","content":[` +
	`{"component":"TextContent","props":{"textMarkdown":"Oats and water"}}]}]}}]}}}`

func runRoot(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		for _, name := range []string{"json", "expand"} {
			_ = renderCmd.Flags().Set(name, "false")
		}
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRenderCommand_Terminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	out := runRoot(t, "", "render", path)
	assert.Contains(t, out, "Oat Milk")
	assert.Contains(t, out, "▸ Ingredients")
	assert.NotContains(t, out, "Oats and water")
}

func TestRenderCommand_Expand(t *testing.T) {
	out := runRoot(t, sample, "render", "--expand", "-")
	assert.Contains(t, out, "▾ Ingredients")
	assert.Contains(t, out, "Oats and water")
}

func TestRenderCommand_JSON(t *testing.T) {
	out := runRoot(t, sample, "render", "--json")

	var resp types.RenderResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "structured", resp.Mode)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, "Oat Milk", resp.Summary.Title)
	require.NotNil(t, resp.Tree)
	assert.Equal(t, "card", resp.Tree.Role)
}

func TestRenderCommand_MissingFile(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"render", filepath.Join(t.TempDir(), "nope.json")})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	assert.Error(t, rootCmd.Execute())
}

func TestConfigCommand(t *testing.T) {
	out := runRoot(t, "", "config")
	assert.Contains(t, out, "MODEL_PROVIDER")
	assert.Contains(t, out, "TELEGRAM_BOT_TOKEN")
}
