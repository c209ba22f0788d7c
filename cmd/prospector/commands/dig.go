package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/42maru-ai/prospector/pkg/prospector"
)

var (
	digFormat string
	digOutput string
	digOCR    bool
	digNorm   bool
)

var digCmd = &cobra.Command{
	Use:   "dig <file.pdf>",
	Short: "Extract one PDF into a structured document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDig,
}

func init() {
	digCmd.Flags().StringVarP(&digFormat, "format", "f", "", "output format: html or json")
	digCmd.Flags().StringVarP(&digOutput, "output", "o", "", "output file (default stdout)")
	digCmd.Flags().BoolVar(&digOCR, "ocr", false, "run OCR over image-only pages")
	digCmd.Flags().BoolVar(&digNorm, "normalize", false, "cache a normalized copy before reading")
	rootCmd.AddCommand(digCmd)
}

func runDig(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	if digFormat != "" {
		cfg.Output.Format = digFormat
	}
	if digOCR {
		cfg.Pipeline.OCR = true
	}
	if digNorm {
		cfg.Pipeline.Normalize = true
	}

	ser, err := serializerFor(cfg.Output.Format, cfg.Output.Pretty)
	if err != nil {
		return err
	}

	client, err := prospector.NewWithConfig(cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	model, err := client.Dig(ctx, args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	doc, ok := model.Document()
	if !ok {
		return fmt.Errorf("pipeline produced no document for %s", args[0])
	}

	out := os.Stdout
	if digOutput != "" {
		f, err := os.Create(digOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := ser.Write(out, doc); err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}

	if digOutput != "" {
		color.Green("✓ %s extracted in %s (%d elements, searchable=%v)",
			doc.Name, time.Since(started).Round(time.Millisecond), len(doc.Content), doc.Searchable)
	}
	return nil
}
