package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gubarz/coursemd/internal/config"
	"github.com/gubarz/coursemd/internal/markup"
	"github.com/gubarz/coursemd/internal/ui"
)

var tohtmlCmd = &cobra.Command{
	Use:   "tohtml [file]",
	Short: "Convert Markdown page content to HTML",
	Long: `Converts Markdown to the HTML stored on pages. Math spans are kept
verbatim in canonical \( \) and \[ \] form. Reads stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		return newOutput(cmd).Output(markup.ToHTML(src))
	},
}

var tomdCmd = &cobra.Command{
	Use:   "tomd [file]",
	Short: "Convert page HTML back to Markdown",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		return newOutput(cmd).Output(markup.ToMarkdown(src))
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Render page content for review",
	Long: `Renders page content in the terminal. With --html the page is rendered
to full HTML instead; --standalone wraps it in a document that typesets math.
HTML input is converted to Markdown first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Bool("html", false, "Render HTML instead of terminal output")
	previewCmd.Flags().Bool("standalone", false, "Wrap HTML output in a full document")
	previewCmd.Flags().String("title", "Preview", "Document title for --standalone")
	previewCmd.Flags().String("style", "", "Terminal style (dark, light, auto, ...)")
	previewCmd.Flags().Int("width", 80, "Terminal wrap width")
}

func runPreview(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	md := markup.As(src, markup.ModeMarkdown)
	exec := newOutput(cmd)

	asHTML, _ := cmd.Flags().GetBool("html")
	standalone, _ := cmd.Flags().GetBool("standalone")
	if asHTML || standalone {
		body, err := markup.Preview(md)
		if err != nil {
			return err
		}
		if standalone {
			title, _ := cmd.Flags().GetString("title")
			body = markup.Document(title, body)
		}
		return exec.Output(strings.TrimRight(body, "\n"))
	}

	style, _ := cmd.Flags().GetString("style")
	if style == "" {
		style = config.GetPreviewStyle()
	}
	width, _ := cmd.Flags().GetInt("width")
	r, err := ui.GlamourRenderer(style)(width)
	if err != nil {
		return err
	}
	out, err := r.Render(ui.ShieldMath(md))
	if err != nil {
		return err
	}
	return exec.Output(strings.TrimRight(out, "\n"))
}
