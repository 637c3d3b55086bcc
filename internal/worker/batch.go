package worker

import "context"

// Processor defines the interface for processing one guideline document
// end to end (page extraction through artifact generation).
type Processor interface {
	ProcessDocument(ctx context.Context, docType, pdfPath string) error
}

// DocumentJob represents one document processing job
type DocumentJob struct {
	DocType   string
	PDFPath   string
	Processor Processor
}

// Execute executes the document job
func (j *DocumentJob) Execute(ctx context.Context) Result {
	err := j.Processor.ProcessDocument(ctx, j.DocType, j.PDFPath)
	return &DocumentResult{
		DocType: j.DocType,
		PDFPath: j.PDFPath,
		Error:   err,
	}
}

// DocumentResult represents the result of a document job
type DocumentResult struct {
	DocType string
	PDFPath string
	Error   error
}

// GetError returns the error from the document result
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple documents concurrently. Pages
// within one document stay sequential; only documents fan out.
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessDocuments processes the given documents concurrently.
// documents maps document type to PDF path.
func (b *BatchProcessor) ProcessDocuments(ctx context.Context, documents map[string]string) []*DocumentResult {
	if len(documents) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for docType, path := range documents {
		pool.Submit(&DocumentJob{
			DocType:   docType,
			PDFPath:   path,
			Processor: b.processor,
		})
	}

	results := pool.Wait()

	documentResults := make([]*DocumentResult, len(results))
	for i, result := range results {
		documentResults[i] = result.(*DocumentResult)
	}

	return documentResults
}
