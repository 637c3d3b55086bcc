package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/precisiondoc/precisiondoc/internal/pdf"
)

// ResolveImage finds the page image for an evidence record.
//
// The explicit reference attached to the record wins when it exists.
// Otherwise a deterministic set of conventional locations derived from the
// document type and page number is probed, images subfolder first, then the
// folder root. The first existing path wins; an empty result means the
// record renders without an image.
func ResolveImage(explicit, folder, docType string, pageNumber int) string {
	if explicit != "" && fileExists(explicit) {
		return explicit
	}
	if folder == "" {
		return ""
	}

	doc := pdf.NormalizeName(docType)
	for _, dir := range []string{filepath.Join(folder, "images"), folder} {
		for _, name := range []string{
			fmt.Sprintf("%s_page_%03d.png", doc, pageNumber),
			fmt.Sprintf("%s_page_%d.png", doc, pageNumber),
			fmt.Sprintf("page_%03d.png", pageNumber),
			fmt.Sprintf("page_%d.png", pageNumber),
		} {
			candidate := filepath.Join(dir, name)
			if fileExists(candidate) {
				return candidate
			}
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
