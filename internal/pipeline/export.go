package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/precisiondoc/precisiondoc/internal/extract"
	"github.com/precisiondoc/precisiondoc/internal/model"
	"github.com/precisiondoc/precisiondoc/internal/pdf"
	"github.com/precisiondoc/precisiondoc/internal/report"
	"github.com/precisiondoc/precisiondoc/internal/store"
)

// Exporter regenerates derived artifacts (XLSX, DOCX) from a saved
// results file without re-calling any LLM. It accepts either a raw
// results JSON or a previously exported XLSX table.
type Exporter struct {
	layout model.LayoutConfig
}

// NewExporter creates an exporter with the given report layout
func NewExporter(layout model.LayoutConfig) *Exporter {
	return &Exporter{layout: layout}
}

// Export rebuilds artifacts next to the input file and returns the
// paths it wrote.
func (e *Exporter) Export(inputPath string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".json":
		return e.exportFromJSON(inputPath)
	case ".xlsx":
		return e.exportFromTable(inputPath)
	default:
		return nil, fmt.Errorf("unsupported input %s (expected .json or .xlsx)", inputPath)
	}
}

// exportFromJSON re-flattens raw page results and writes both the XLSX
// table and the evidence report for every document in the file.
func (e *Exporter) exportFromJSON(path string) ([]string, error) {
	docs, err := store.LoadResults(path)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents in %s", path)
	}

	outDir := filepath.Dir(path)
	var written []string
	for _, doc := range docs {
		flat := extract.Flatten(doc.Type, doc.Pages)
		base := pdf.NormalizeName(doc.Type)

		xlsxPath := filepath.Join(outDir, base+"_results.xlsx")
		if err := store.WriteTable(flat, xlsxPath); err != nil {
			return written, fmt.Errorf("write table for %s: %w", doc.Type, err)
		}
		written = append(written, xlsxPath)

		docxPath, err := e.renderReport(doc.Type, flat, outDir)
		if err != nil {
			return written, err
		}
		if docxPath != "" {
			written = append(written, docxPath)
		}
	}
	return written, nil
}

// exportFromTable re-renders only the evidence report from a flat
// XLSX table. The document type is read from the rows themselves.
func (e *Exporter) exportFromTable(path string) ([]string, error) {
	flat, err := store.ReadTable(path)
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}

	docType := tableDocType(flat)
	if docType == "" {
		// Fall back to the artifact naming convention
		docType = strings.TrimSuffix(filepath.Base(path), "_results.xlsx")
	}

	docxPath, err := e.renderReport(docType, flat, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if docxPath == "" {
		return nil, nil
	}
	return []string{docxPath}, nil
}

// renderReport writes the evidence DOCX, or nothing when the record
// set holds no confirmed evidence. Returns the written path.
func (e *Exporter) renderReport(docType string, flat model.RecordSet, outDir string) (string, error) {
	items := BuildItems(flat)
	if len(items) == 0 {
		logger.Printf("warning: no evidence rows for %s, report skipped", docType)
		return "", nil
	}

	docxPath := filepath.Join(outDir, pdf.NormalizeName(docType)+"_results_evidence.docx")
	engine := report.NewEngine(e.layout, outDir)
	if err := engine.Render(docType, items, docxPath); err != nil {
		return "", fmt.Errorf("render evidence report: %w", err)
	}
	return docxPath, nil
}

// tableDocType returns the document_type of the first row that has one
func tableDocType(rs model.RecordSet) string {
	for _, rec := range rs {
		if v, ok := rec.Get("document_type"); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
