package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/precisiondoc/precisiondoc/internal/llm"
	"github.com/precisiondoc/precisiondoc/internal/model"
	"github.com/precisiondoc/precisiondoc/internal/pdf"
	"github.com/precisiondoc/precisiondoc/internal/pipeline"
	"github.com/precisiondoc/precisiondoc/internal/worker"
	"github.com/spf13/cobra"
)

var (
	outputFolder string
	aiProvider   string
	aiModel      string
	aiTimeout    time.Duration
	useVision    bool
	noCache      bool
	concurrency  int
	rps          float64
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <folder>",
	Short: "Extract precision-medicine evidence from guideline PDFs",
	Long: `Process scans a folder of clinical guideline PDFs, picks the newest
edition of each document, and runs every page through the configured
LLM backend:
- classify the page (content, table of contents, references)
- extract structured drug evidence from content pages
- consolidate results into JSON and XLSX
- render confirmed evidence into a Word report

Example:
  precisiondoc process ./guidelines
  precisiondoc process ./guidelines --provider qwen --vision
  precisiondoc process ./guidelines --provider ollama --model qwen2.5:14b`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&outputFolder, "output", "o", "./output", "artifact output folder")
	processCmd.Flags().StringVar(&aiProvider, "provider", "openai", "LLM provider (openai, qwen, ollama)")
	processCmd.Flags().StringVar(&aiModel, "model", "", "LLM model name (provider default when empty)")
	processCmd.Flags().DurationVar(&aiTimeout, "timeout", 60*time.Second, "per-request LLM timeout")
	processCmd.Flags().BoolVar(&useVision, "vision", false, "send page images instead of extracted text (needs pdftoppm)")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the LLM response cache")
	processCmd.Flags().IntVar(&concurrency, "concurrency", 2, "documents processed in parallel")
	processCmd.Flags().Float64Var(&rps, "rps", 2, "LLM requests per second")
}

func runProcess(cmd *cobra.Command, args []string) error {
	folder := args[0]

	cfg, err := processConfig()
	if err != nil {
		return err
	}

	documents, err := pdf.DiscoverLatest(folder)
	if err != nil {
		return fmt.Errorf("discover documents: %w", err)
	}
	if len(documents) == 0 {
		return fmt.Errorf("no guideline PDFs found in %s", folder)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Processing %d documents with %s\n", len(documents), cfg.AI.Provider)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	batch := worker.NewBatchProcessor(p, cfg.Concurrency.DocumentWorkers)
	results := batch.ProcessDocuments(context.Background(), documents)

	failures := 0
	for _, r := range results {
		if r.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.DocType, r.Error)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s\n", r.DocType)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(results))
	}

	fmt.Printf("Processed %d documents, artifacts in %s\n", len(results), cfg.Output.Folder)
	return nil
}

// processConfig assembles the runtime configuration from defaults and
// flags, and resolves the provider API key from the environment.
func processConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.AI.Provider = aiProvider
	cfg.AI.Model = aiModel
	cfg.AI.Timeout = aiTimeout
	cfg.AI.UseVision = useVision
	cfg.Cache.Enabled = !noCache
	cfg.Concurrency.DocumentWorkers = concurrency
	cfg.Concurrency.RequestsPerSecond = rps
	cfg.Output.Folder = outputFolder
	cfg.Output.Verbose = verbose

	if envVar := llm.APIKeyEnvVar(aiProvider); envVar != "" {
		cfg.AI.APIKey = os.Getenv(envVar)
		if cfg.AI.APIKey == "" {
			return nil, fmt.Errorf("%s environment variable not set", envVar)
		}
	}
	if aiProvider == "ollama" {
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.AI.BaseURL = baseURL
		}
	}
	return cfg, nil
}
