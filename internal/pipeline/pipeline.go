// Package pipeline orchestrates one guideline document end to end:
// page text extraction, optional rasterization, LLM classification and
// evidence extraction, then artifact generation (JSON, XLSX, DOCX).
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/precisiondoc/precisiondoc/internal/cache"
	"github.com/precisiondoc/precisiondoc/internal/extract"
	"github.com/precisiondoc/precisiondoc/internal/llm"
	"github.com/precisiondoc/precisiondoc/internal/model"
	"github.com/precisiondoc/precisiondoc/internal/pdf"
	"github.com/precisiondoc/precisiondoc/internal/report"
	"github.com/precisiondoc/precisiondoc/internal/store"
	"github.com/precisiondoc/precisiondoc/internal/worker"
)

var logger = log.New(os.Stderr, "[pipeline] ", log.LstdFlags)

// Pipeline processes guideline documents. Pages within one document are
// handled strictly sequentially; concurrency lives one level up in the
// worker pool that fans out whole documents.
type Pipeline struct {
	provider llm.Provider
	cache    cache.Cache // nil when caching is disabled
	limiter  *worker.Limiter
	raster   pdf.Rasterizer
	config   *model.Config

	// openPDF is swapped out in tests
	openPDF func(path string) (pdf.Reader, error)
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.AI))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	var raster pdf.Rasterizer
	if cfg.AI.UseVision {
		raster = pdf.NewRasterizer()
	}

	return &Pipeline{
		provider: provider,
		cache:    cache.FromConfig(cfg.Cache),
		limiter:  worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.BurstSize),
		raster:   raster,
		config:   cfg,
		openPDF: func(path string) (pdf.Reader, error) {
			return pdf.Open(path)
		},
	}, nil
}

// ProcessDocument processes one guideline PDF and writes its artifacts.
// Page failures are recorded in the results and never abort the
// document; only document-level failures (unreadable PDF, unwritable
// output) return an error.
func (p *Pipeline) ProcessDocument(ctx context.Context, docType, pdfPath string) error {
	doc, err := p.openPDF(pdfPath)
	if err != nil {
		return fmt.Errorf("open document %s: %w", docType, err)
	}

	outDir := p.outputDir(docType)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	total := doc.PageCount()
	logger.Printf("processing %s: %d pages from %s", docType, total, filepath.Base(pdfPath))

	interval := p.config.Output.CheckpointInterval
	started := time.Now()

	var pages []model.PageResult
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.config.Output.Verbose {
			logger.Printf("%s: page %d/%d", docType, n, total)
		}

		pages = append(pages, p.processPage(ctx, doc, docType, pdfPath, n, outDir))

		// Checkpoint so an interrupted run leaves a loadable results file
		if interval > 0 && n%interval == 0 {
			if err := p.writeResults(docType, pages, outDir); err != nil {
				logger.Printf("warning: checkpoint after page %d failed: %v", n, err)
			}
		}
	}

	if err := p.SaveResults(docType, pages); err != nil {
		return err
	}
	logger.Printf("finished %s in %s", docType, time.Since(started).Round(time.Second))
	return nil
}

// processPage runs classification and extraction for one page. Any
// failure is folded into the returned PageResult.
func (p *Pipeline) processPage(ctx context.Context, doc pdf.Reader, docType, pdfPath string, pageNr int, outDir string) model.PageResult {
	text, err := doc.PageText(pageNr)
	if err != nil {
		logger.Printf("warning: text extraction failed for %s page %d: %v", docType, pageNr, err)
		text = ""
	}

	imagePath := ""
	if p.config.AI.UseVision && p.raster != nil && p.raster.Available() {
		imagePath, err = p.raster.PageImage(ctx, pdfPath, pageNr, filepath.Join(outDir, "images"))
		if err != nil {
			logger.Printf("warning: rasterization failed for %s page %d: %v", docType, pageNr, err)
			imagePath = ""
		}
	}

	pageType := p.classifyPage(ctx, text, imagePath)
	if pageType != model.PageTypeContent {
		logger.Printf("%s page %d classified as %s, skipping extraction", docType, pageNr, pageType)
		result := model.SkippedPage(pageType)
		result.ImagePath = imagePath
		return result
	}

	content, err := p.extractPage(ctx, text, imagePath)
	if err != nil {
		logger.Printf("warning: extraction failed for %s page %d: %v", docType, pageNr, err)
		result := model.FailedPage(err)
		result.ImagePath = imagePath
		return result
	}

	return model.PageResult{
		Success:   true,
		Content:   content,
		PageType:  model.PageTypeContent,
		ImagePath: imagePath,
	}
}

// classifyPage asks the model for the page type. Classification
// failures default to content so no page is silently dropped.
func (p *Pipeline) classifyPage(ctx context.Context, text, imagePath string) model.PageType {
	req := llm.Request{System: llm.SystemText, Prompt: llm.PageTypePrompt(text)}
	if imagePath != "" {
		req = llm.Request{System: llm.SystemVision, Prompt: llm.PageTypeImagePrompt(), ImagePath: imagePath}
	}

	answer, err := p.complete(ctx, req)
	if err != nil {
		logger.Printf("warning: page classification failed, assuming content: %v", err)
		return model.PageTypeContent
	}
	return llm.ParsePageType(answer)
}

// extractPage runs the evidence extraction prompt and returns the raw
// model output.
func (p *Pipeline) extractPage(ctx context.Context, text, imagePath string) (string, error) {
	req := llm.Request{System: llm.SystemText, Prompt: llm.ExtractTextPrompt(text)}
	if imagePath != "" {
		req = llm.Request{System: llm.SystemVision, Prompt: llm.ExtractImagePrompt(), ImagePath: imagePath}
	}
	return p.complete(ctx, req)
}

// complete is the single funnel for LLM calls: cache lookup, rate
// limit, API call, cache fill.
func (p *Pipeline) complete(ctx context.Context, req llm.Request) (string, error) {
	key := cache.Key(p.provider.Name(), p.config.AI.Model, req.Prompt, req.ImagePath)
	if p.cache != nil {
		if cached, found := p.cache.Get(key); found {
			return string(cached), nil
		}
	}

	if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
		return "", err
	}

	resp, err := p.provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	if p.cache != nil {
		if err := p.cache.Set(key, []byte(resp.Content), 0); err != nil {
			logger.Printf("warning: cache write failed: %v", err)
		}
	}
	return resp.Content, nil
}

// SaveResults writes all artifacts for one processed document: the raw
// per-page JSON, the flat XLSX table and the evidence DOCX report.
func (p *Pipeline) SaveResults(docType string, pages []model.PageResult) error {
	outDir := p.outputDir(docType)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := p.writeResults(docType, pages, outDir); err != nil {
		return err
	}

	flat := extract.Flatten(docType, pages)
	return p.writeDerived(docType, flat, outDir)
}

// writeResults writes (or overwrites) the raw results JSON
func (p *Pipeline) writeResults(docType string, pages []model.PageResult, outDir string) error {
	path := filepath.Join(outDir, pdf.NormalizeName(docType)+"_results.json")
	docs := []store.DocumentResults{{Type: docType, Pages: pages}}
	if err := store.WriteResults(path, docs); err != nil {
		return fmt.Errorf("write results JSON: %w", err)
	}
	return nil
}

// writeDerived writes the XLSX table and the DOCX evidence report from
// the flattened record set.
func (p *Pipeline) writeDerived(docType string, flat model.RecordSet, outDir string) error {
	base := pdf.NormalizeName(docType)

	xlsxPath := filepath.Join(outDir, base+"_results.xlsx")
	if err := store.WriteTable(flat, xlsxPath); err != nil {
		return fmt.Errorf("write results XLSX: %w", err)
	}

	items := BuildItems(flat)
	engine := report.NewEngine(p.config.Layout, outDir)
	docxPath := filepath.Join(outDir, base+"_results_evidence.docx")
	if err := engine.Render(docType, items, docxPath); err != nil {
		return fmt.Errorf("render evidence report: %w", err)
	}
	return nil
}

// outputDir is the per-document artifact directory
func (p *Pipeline) outputDir(docType string) string {
	return filepath.Join(p.config.Output.Folder, pdf.NormalizeName(docType))
}

// BuildItems filters the flat records down to confirmed evidence and
// prepares each for report layout. The presented fields hide the
// scaffolding columns; document type, page number and image reference
// are lifted from the unpresented record.
func BuildItems(flat model.RecordSet) []report.Item {
	exclude := extract.DefaultExcludeKeys()

	var items []report.Item
	for _, rec := range extract.FilterEvidence(flat) {
		item := report.Item{Fields: extract.Present(rec, exclude)}
		if v, ok := rec.Get("document_type"); ok {
			item.DocumentType, _ = v.(string)
		}
		if v, ok := rec.Get("page_number"); ok {
			item.PageNumber = asInt(v)
		}
		if v, ok := rec.Get("image_path"); ok {
			item.ImagePath, _ = v.(string)
		}
		items = append(items, item)
	}
	return items
}

// asInt coerces the page number however it survived serialization
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return 0
}
