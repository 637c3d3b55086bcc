package cli

import (
	"fmt"

	"github.com/precisiondoc/precisiondoc/internal/model"
	"github.com/precisiondoc/precisiondoc/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	singleRow    bool
	noBorders    bool
	orientation  string
	marginInches float64
	textFraction float64
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <results.json | results.xlsx>",
	Short: "Regenerate XLSX/DOCX artifacts from saved results",
	Long: `Export rebuilds the derived artifacts from a saved results file
without calling any LLM. From a results JSON it regenerates both the
XLSX table and the Word evidence report; from an XLSX table it
regenerates the report only.

Example:
  precisiondoc export output/肺癌指南/肺癌指南_results.json
  precisiondoc export output/肺癌指南/肺癌指南_results.xlsx --orientation portrait --no-borders`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&singleRow, "single-row", false, "render each record as one pseudo-JSON cell instead of one row per field")
	exportCmd.Flags().BoolVar(&noBorders, "no-borders", false, "suppress all table borders in the report")
	exportCmd.Flags().StringVar(&orientation, "orientation", "landscape", "page orientation (landscape, portrait)")
	exportCmd.Flags().Float64Var(&marginInches, "margin", 0.75, "page margin in inches")
	exportCmd.Flags().Float64Var(&textFraction, "text-fraction", 0, "text column share of the table width (0 = orientation default)")
}

func runExport(cmd *cobra.Command, args []string) error {
	layout := model.DefaultLayoutConfig()
	layout.MultiLineText = !singleRow
	layout.ShowBorders = !noBorders
	layout.Orientation = orientation
	layout.Margins = model.Margins{
		Left:   marginInches,
		Right:  marginInches,
		Top:    marginInches,
		Bottom: marginInches,
	}
	layout.TextColumnFraction = textFraction

	written, err := pipeline.NewExporter(layout).Export(args[0])
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	for _, path := range written {
		fmt.Printf("✓ Wrote %s\n", path)
	}
	if len(written) == 0 {
		fmt.Println("No evidence rows found, nothing written")
	}
	return nil
}
