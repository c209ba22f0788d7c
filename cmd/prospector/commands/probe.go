package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/42maru-ai/prospector/pkg/prospector"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file.pdf>",
	Short: "Report whether a PDF carries a searchable text layer",
	Long: `Probe checks whether any page of the PDF has extractable text. It never
runs the extraction pipeline, so it stays cheap even on large files.

Exit status is 0 when the file is searchable, 2 when it is image-only.`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	searchable, err := prospector.IsSearchable(args[0])
	if err != nil {
		return err
	}
	if searchable {
		color.Green("searchable")
		return nil
	}
	color.Yellow("not searchable")
	return exitCodeError{code: 2}
}

// exitCodeError carries a process exit status through cobra without printing
// an error message.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string { return "" }
