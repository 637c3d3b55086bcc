package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Rasterizer turns single PDF pages into PNG images for vision backends
type Rasterizer interface {
	Available() bool
	PageImage(ctx context.Context, pdfPath string, pageNr int, outDir string) (string, error)
}

// PdftoppmRasterizer shells out to poppler's pdftoppm. pdfcpu cannot
// render pages, so rasterization is delegated to the external binary; its
// absence downgrades the run to text-only processing, it never fails it.
type PdftoppmRasterizer struct {
	binary string
	dpi    int
}

// NewRasterizer locates pdftoppm on PATH
func NewRasterizer() *PdftoppmRasterizer {
	bin, err := exec.LookPath("pdftoppm")
	if err != nil {
		logger.Printf("warning: pdftoppm not found, page images disabled")
		bin = ""
	}
	return &PdftoppmRasterizer{binary: bin, dpi: 150}
}

// Available reports whether rasterization can run at all
func (r *PdftoppmRasterizer) Available() bool {
	return r.binary != ""
}

// PageImage renders one 1-based page to
// <outDir>/<doc>_page_<NNN>.png and returns the path. An existing image
// is reused so re-runs stay cheap.
func (r *PdftoppmRasterizer) PageImage(ctx context.Context, pdfPath string, pageNr int, outDir string) (string, error) {
	if r.binary == "" {
		return "", fmt.Errorf("pdftoppm not available")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	base := NormalizeName(baseName(pdfPath))
	prefix := filepath.Join(outDir, fmt.Sprintf("%s_page_%03d", base, pageNr))
	out := prefix + ".png"
	if _, err := os.Stat(out); err == nil {
		return out, nil
	}

	page := strconv.Itoa(pageNr)
	cmd := exec.CommandContext(ctx, r.binary,
		"-png", "-r", strconv.Itoa(r.dpi),
		"-f", page, "-l", page,
		"-singlefile",
		pdfPath, prefix)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w (%s)", pageNr, err, output)
	}
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", pageNr)
	}
	return out, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return name[:len(name)-len(filepath.Ext(name))]
}
