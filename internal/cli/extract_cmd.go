package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/planora/internal/cli/formatter"
	"github.com/alexanderramin/planora/internal/extract"
	"github.com/spf13/cobra"
)

func newExtractCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Run the plan extractor over a saved model response",
		Long: `Extract reads a model response from a file or stdin and shows what the
extractor recovers from it, with confidence and notes. Nothing is stored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			ex := app.Extractor
			if ex == nil {
				ex = extract.New()
			}
			res := ex.Extract(raw)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatExtraction(res))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full extraction result as JSON")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}
