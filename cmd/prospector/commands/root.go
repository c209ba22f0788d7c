// Package commands implements the prospector CLI.
package commands

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/42maru-ai/prospector/internal/config"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "prospector",
	Short: "Extract structured content from PDF documents",
	Long: `Prospector turns PDF files into structured documents: titles with levels,
paragraphs, tables and page images. It can process one file at a time or
fan a whole directory out over a worker pool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command. Commands signalling a bare exit status
// terminate the process here without an error message.
func Execute() error {
	err := rootCmd.Execute()
	var ec exitCodeError
	if errors.As(err, &ec) {
		os.Exit(ec.code)
	}
	return err
}
