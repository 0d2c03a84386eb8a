// Convert command.
// This is the main command that orchestrates the pipeline:
// load → locate roster → map rows → render → write.
//
// It handles flag validation, config layering and renderer selection.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/rostercard/config"
	"github.com/gaurav-prasanna/rostercard/core"
	"github.com/gaurav-prasanna/rostercard/core/load"
	"github.com/gaurav-prasanna/rostercard/core/output"
	"github.com/gaurav-prasanna/rostercard/core/pipeline"
	"github.com/gaurav-prasanna/rostercard/core/render"
	"github.com/gaurav-prasanna/rostercard/core/vcard"
)

// Flag variables.
var (
	flagVCard       bool
	flagAMC         bool
	flagJSON        bool
	flagMarkdown    bool
	flagPDF         bool
	flagCourse      string
	flagInstitution string
	flagTitle       string
	flagOutput      string
	flagSaveDir     string
	flagNoPhotos    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file|->",
	Short: "Convert a saved roster page to vCards or another format",
	Long: `Convert locates the student table in a saved roster page, maps each row to
a contact and writes the result. Rows that cannot be mapped are skipped and
reported on stderr; the remaining rows are still written.

Examples:
  rostercard convert roster.html > class.vcf
  rostercard convert roster.html --institution "New York University" -o class.vcf
  rostercard convert roster.html --save-dir ./cards
  rostercard convert roster.html --amc -o students.csv
  cat roster.html | rostercard convert - --json`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Output format flags (mutually exclusive).
	convertCmd.Flags().BoolVar(&flagVCard, "vcard", false, "Output vCard 3.0 (default)")
	convertCmd.Flags().BoolVar(&flagAMC, "amc", false, "Output auto-multiple-choice student CSV")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output a Markdown class list")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output a PDF class list")

	// Run context.
	convertCmd.Flags().StringVar(&flagCourse, "course", "", "Course label for every card (default: detected from the page)")
	convertCmd.Flags().StringVar(&flagInstitution, "institution", "", "Institution name for ORG")
	convertCmd.Flags().StringVar(&flagTitle, "title", "", "TITLE for every card (default Student; \"\" omits it)")
	convertCmd.Flags().BoolVar(&flagNoPhotos, "no-photos", false, "Do not embed student photos referenced by the page")

	// Destination.
	convertCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to FILE instead of stdout")
	convertCmd.Flags().StringVar(&flagSaveDir, "save-dir", "", "Write one .vcf file per student into DIR")
}

func runConvert(cmd *cobra.Command, args []string) error {
	// --- Validate flags ---
	if err := validateFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	renderer := selectRenderer()

	page, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Columns: cfg.RosterColumns(),
		Context: cfg.RunContext(),
	}
	if !flagNoPhotos {
		opts.Photos = page.Photos()
	}
	res, err := pipeline.Convert(page.Root, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	logger.Info("roster located", "source", args[0], "columns", len(res.Header), "course", res.Course.Label())
	logDiagnostics(res.Diagnostics)

	if err := writeResult(cmd, res, renderer); err != nil {
		return err
	}

	printSummary(cmd.ErrOrStderr(), res)
	return nil
}

// loadConfig layers the config file, the environment and the flags that
// were set explicitly, in increasing priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	c := &cfg
	if flagConfig != "" {
		if _, err := os.Stat(flagConfig); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		c = loaded
	}
	c.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("course") {
		c.Course = flagCourse
	}
	if flags.Changed("institution") {
		c.Institution = flagInstitution
	}
	if flags.Changed("title") {
		c.Title = flagTitle
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("config resolved", "path", flagConfig, "course", c.Course, "institution", c.Institution, "title", c.Title)
	return c, nil
}

// loadDocument reads a file argument, or stdin for "-". A page read from
// stdin has no directory, so its photos are not resolved.
func loadDocument(cmd *cobra.Command, src string) (*load.Page, error) {
	if src == "-" {
		root, err := load.Reader(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return &load.Page{Root: root}, nil
	}
	return load.Open(src)
}

func logDiagnostics(diags []core.Diagnostic) {
	for _, d := range diags {
		msg := "field warning"
		if d.Kind.Rejects() {
			msg = "row skipped"
		}
		logger.Warn(msg, "row", d.Row, "kind", string(d.Kind), "field", d.Field, "detail", d.Message)
	}
}

// writeResult sends the rendered result to --save-dir, --output or stdout.
func writeResult(cmd *cobra.Command, res *core.Result, renderer core.Renderer) error {
	if flagSaveDir != "" {
		w, err := output.New(flagSaveDir)
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
		paths, err := w.WriteCards(res.Records, renderer.Extension(), vcard.Marshal)
		for _, p := range paths {
			logger.Info("card written", "path", p)
		}
		return err
	}

	data, err := renderer.Render(res)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if flagOutput == "" || flagOutput == "-" {
		return output.WriteStream(cmd.OutOrStdout(), data)
	}
	w, err := output.New(filepath.Dir(flagOutput))
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := w.WriteFile(filepath.Base(flagOutput), data)
	if err != nil {
		return err
	}
	logger.Info("output written", "path", path, "bytes", len(data))
	return nil
}

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
	warnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "3", Dark: "11"})
)

// printSummary writes "N converted, M skipped", colored when w is a terminal.
func printSummary(w io.Writer, res *core.Result) {
	converted := fmt.Sprintf("%d converted", res.Converted)
	skipped := fmt.Sprintf("%d skipped", res.Skipped)
	if isTTY(w) {
		converted = okStyle.Render(converted)
		if res.Skipped > 0 {
			skipped = warnStyle.Render(skipped)
		}
	}
	fmt.Fprintf(w, "%s, %s\n", converted, skipped)
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// validateFlags checks that at most one output format is chosen and that
// --save-dir is only combined with vCard output.
func validateFlags() error {
	// Count output formats.
	formatCount := 0
	for _, set := range []bool{flagVCard, flagAMC, flagJSON, flagMarkdown, flagPDF} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	if flagSaveDir != "" {
		if formatCount == 1 && !flagVCard {
			return fmt.Errorf("--save-dir writes vCards and cannot be combined with another format")
		}
		if flagOutput != "" {
			return fmt.Errorf("--save-dir and --output are mutually exclusive")
		}
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() core.Renderer {
	switch {
	case flagAMC:
		return render.NewAMCRenderer()
	case flagJSON:
		return render.NewJSONRenderer()
	case flagMarkdown:
		return render.NewMarkdownRenderer()
	case flagPDF:
		return render.NewPDFRenderer()
	default:
		return vcard.NewRenderer()
	}
}
