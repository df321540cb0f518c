package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/swarajpanmand/encode-ai-native-health/internal/surface/term"
	"github.com/swarajpanmand/encode-ai-native-health/internal/types"
	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render a saved model response in the terminal",
	Long: `Reads a raw model response from a file, or stdin when the argument is "-" or
missing, and draws it the way the chat clients do. --json prints the element
tree the /api/render endpoint returns instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			surface, _ := cmd.Flags().GetString("surface")
			return writeTree(cmd.OutOrStdout(), raw, surface)
		}

		width, _ := cmd.Flags().GetInt("width")
		markdown, _ := cmd.Flags().GetBool("markdown")
		expand, _ := cmd.Flags().GetBool("expand")

		r := term.New(term.WithWidth(width), term.WithMarkdown(markdown))
		a := term.Prepare(raw)
		state := &ui.AccordionState{}
		if expand {
			state.Expand(a.Tree)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), r.RenderAnswer(a, term.View{State: state}))
		return err
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Bool("json", false, "Print the element tree as JSON")
	renderCmd.Flags().String("surface", "web", "Icon set for --json output (web, mobile, terminal, telegram)")
	renderCmd.Flags().Bool("expand", false, "Open every disclosure")
	renderCmd.Flags().Bool("markdown", false, "Render text blocks through glamour")
	renderCmd.Flags().IntP("width", "w", term.DefaultWidth, "Wrap width")
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeTree(w io.Writer, raw, surface string) error {
	out := ui.Render(raw, ui.IconSetFor(surface))
	resp := types.RenderResponse{Mode: string(out.Mode), Summary: out.Summary, Tree: out.Tree}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
