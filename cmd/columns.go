package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/rostercard/core/roster"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file|->",
	Short: "Show which table and columns convert would use",
	Long: `Columns locates the roster table the same way convert does and prints the
header cell matched to each logical column, followed by the course details
found on the page. Use it to check a custom columns: section in the config.`,
	Args: cobra.ExactArgs(1),
	RunE: runColumns,
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}

func runColumns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	page, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}

	r, err := roster.Parse(page.Root, cfg.RosterColumns())
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	t := table.New().Headers("COLUMN", "HEADER", "POSITION")
	for _, col := range roster.AllColumns {
		header, pos := "-", "-"
		if r.Positions.Has(col) {
			i := r.Positions[col]
			header = r.Header[i]
			pos = strconv.Itoa(i + 1)
		}
		t.Row(string(col), header, pos)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, t.Render())

	course := roster.DetectCourse(page.Root)
	for _, f := range []struct{ label, value string }{
		{"Course", course.Label()},
		{"Title", course.Name},
		{"Institution", course.Institution},
		{"Instructor", course.Instructor},
	} {
		if f.value != "" {
			fmt.Fprintf(out, "%-12s %s\n", f.label+":", f.value)
		}
	}
	return nil
}
