// Package pdf is the thin collaborator around guideline PDF files:
// discovery of the newest edition per document type, page counting,
// per-page text extraction and optional page rasterization.
package pdf

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var logger = log.New(os.Stderr, "[pdf] ", log.LstdFlags)

// nonWord matches everything replaced by "_" in artifact names.
// Word characters are Unicode-aware: CJK document titles must survive.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)

// NormalizeName makes a document type safe for filesystem use.
// Deterministic per-type naming is the only guard against cross-document
// artifact collisions, so this must stay stable.
func NormalizeName(name string) string {
	return nonWord.ReplaceAllString(name, "_")
}

// editionPattern extracts document type and edition year from guideline
// filenames such as "CSCO黑色素瘤诊疗指南2024_20241225015714.pdf".
var editionPattern = regexp.MustCompile(`^(.+?)(\d{4})[^/]*\.pdf$`)

// DiscoverLatest walks folder recursively and returns, per document type,
// the path of its newest edition (highest embedded year).
func DiscoverLatest(folder string) (map[string]string, error) {
	type edition struct {
		year int
		path string
	}
	groups := make(map[string][]edition)

	count := 0
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		count++
		m := editionPattern.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			logger.Printf("warning: skipping PDF without an edition year: %s", filepath.Base(path))
			return nil
		}
		year, convErr := strconv.Atoi(m[2])
		if convErr != nil {
			return nil
		}
		docType := strings.TrimSpace(m[1])
		groups[docType] = append(groups[docType], edition{year: year, path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan folder %s: %w", folder, err)
	}
	logger.Printf("found %d PDF files in %s", count, folder)

	latest := make(map[string]string, len(groups))
	for docType, editions := range groups {
		best := editions[0]
		for _, e := range editions[1:] {
			if e.year > best.year {
				best = e
			}
		}
		latest[docType] = best.path
		logger.Printf("latest edition of %s: %s (year %d)", docType, filepath.Base(best.path), best.year)
	}
	return latest, nil
}
