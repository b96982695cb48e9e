package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zakahfir/microflow-ai/internal/app"
	"github.com/zakahfir/microflow-ai/internal/app/config"
	"github.com/zakahfir/microflow-ai/internal/domain/quote"
	pdfgen "github.com/zakahfir/microflow-ai/internal/domain/quote/pdf/gofpdf"
	"github.com/zakahfir/microflow-ai/internal/extract"
	"github.com/zakahfir/microflow-ai/internal/llm"
	"github.com/zakahfir/microflow-ai/internal/pipeline"
)

var (
	flagMargin     float64
	flagLaborDesc  string
	flagLaborHours float64
	flagLaborRate  float64
	flagOutDir     string
)

var processCmd = &cobra.Command{
	Use:   "process <input.pdf>",
	Short: "Process one supplier quote end to end",
	Long: `Process extracts the text of a supplier quote, structures it with the
backend named by LLM_PROVIDER, applies the margin and labor line, and writes
Devis_Client_<timestamp>.pdf into the output directory.

Examples:
  microflow process devis_fournisseur.pdf
  microflow process devis.pdf --margin 25 --labor-hours 12 --out ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	def := quote.DefaultAdjustments()
	processCmd.Flags().Float64Var(&flagMargin, "margin", def.MarginPercent, "Margin percentage applied to supply lines")
	processCmd.Flags().StringVar(&flagLaborDesc, "labor-desc", def.Labor.Description, "Labor line description (empty disables the labor line)")
	processCmd.Flags().Float64Var(&flagLaborHours, "labor-hours", def.Labor.Hours, "Labor hours")
	processCmd.Flags().Float64Var(&flagLaborRate, "labor-rate", def.Labor.HourlyRate, "Labor hourly rate")
	processCmd.Flags().StringVar(&flagOutDir, "out", "", "Output directory (default OUTPUT_DIR or output_devis)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	if flagMargin < 0 || flagLaborHours < 0 || flagLaborRate < 0 {
		return fmt.Errorf("margin, labor-hours and labor-rate must be >= 0")
	}

	cfg := config.Load()
	outDir := flagOutDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	backend, err := app.NewBackend(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Extractor:  extract.New(),
		Structurer: llm.NewStructurer(backend, cfg.LLMTimeout, cfg.MaxPromptChars),
		Generator:  pdfgen.New(cfg.FontDir),
	}

	adj := quote.Adjustments{
		MarginPercent: flagMargin,
		Labor: quote.Labor{
			Description: flagLaborDesc,
			Hours:       flagLaborHours,
			HourlyRate:  flagLaborRate,
		},
	}

	res, err := runner.Process(cmd.Context(), args[0], adj, outDir)
	if err != nil {
		return err
	}

	fmt.Printf("Devis généré : %s\n", res.OutputPath)
	fmt.Printf("TOTAL HT  %.2f €\nTVA (20%%) %.2f €\nTOTAL TTC %.2f €\n",
		res.TotalHT, res.TotalTTC-res.TotalHT, res.TotalTTC)
	return nil
}
