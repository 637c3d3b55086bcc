// Package report renders the filtered, presented evidence records into a
// paginated DOCX document: one section per record, each holding a
// two-column text+image table.
package report

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/precisiondoc/precisiondoc/internal/model"
	"github.com/precisiondoc/precisiondoc/internal/report/docx"
)

var logger = log.New(os.Stderr, "[report] ", log.LstdFlags)

// Default column fractions; the image column carries the dominant share
const (
	defaultTextFractionLandscape = 0.25
	defaultTextFractionPortrait  = 0.30
)

// Item is one evidence record ready for layout
type Item struct {
	Fields       *model.Record // Presented display fields, values stringified
	ImagePath    string        // Explicit image reference, may be empty
	DocumentType string
	PageNumber   int
}

// Engine lays out evidence items into a report document
type Engine struct {
	cfg    model.LayoutConfig
	folder string // Artifact folder probed for fallback images
}

// NewEngine creates a layout engine. folder is the output folder whose
// conventional image locations are searched when a record carries no
// usable image reference.
func NewEngine(cfg model.LayoutConfig, folder string) *Engine {
	return &Engine{cfg: cfg, folder: folder}
}

// Render writes the evidence report to path. An empty item set is not an
// error: it logs a warning and writes nothing.
func (e *Engine) Render(title string, items []Item, path string) error {
	if len(items) == 0 {
		logger.Printf("warning: no evidence data to export to %s", path)
		return nil
	}
	if path == "" {
		return fmt.Errorf("no output path resolvable for evidence report")
	}

	secCfg := e.sectionConfig()
	doc := docx.New()

	for i, item := range items {
		sec := doc.AddSection(secCfg)
		if i == 0 {
			sec.AddHeading(title)
		}
		if err := e.layoutItem(doc, sec, secCfg, item); err != nil {
			return err
		}
		sec.AddParagraph(strings.Repeat("─", 50)).Center()
	}

	return doc.SaveToFile(path)
}

// layoutItem emits one record's table into its section
func (e *Engine) layoutItem(doc *docx.Document, sec *docx.Section, secCfg docx.SectionConfig, item Item) error {
	textW, imageW := e.columnWidths(secCfg)

	img := e.resolveAndLoad(doc, item, imageW)

	table := sec.AddTable([]int{textW, imageW}, e.cfg.ShowBorders)

	if e.cfg.MultiLineText {
		keys := item.Fields.Keys()
		if len(keys) == 0 {
			keys = []string{""} // A table needs at least one row
		}
		for i, key := range keys {
			row := table.AddRow()
			left := row.AddCell(textW)
			if key != "" {
				v, _ := item.Fields.Get(key)
				left.AddText(fmt.Sprintf("%s: %v", key, v))
			}
			right := row.AddCell(imageW)
			if i == 0 {
				// The image cell spans every row of the table
				right.MergeDown()
				if img != nil {
					right.SetImage(img)
				}
			} else {
				right.MergeContinue()
			}
		}
	} else {
		row := table.AddRow()
		row.AddCell(textW).AddText(pseudoJSON(item.Fields))
		right := row.AddCell(imageW)
		if img != nil {
			right.SetImage(img)
		}
	}
	return nil
}

// resolveAndLoad finds and embeds the record's page image. Failures are
// warnings; the cell is simply left without an image.
func (e *Engine) resolveAndLoad(doc *docx.Document, item Item, imageW int) *docx.Image {
	path := ResolveImage(item.ImagePath, e.folder, item.DocumentType, item.PageNumber)
	if path == "" {
		logger.Printf("warning: no image found for %s page %d", item.DocumentType, item.PageNumber)
		return nil
	}
	img, err := doc.AddImagePNG(path, imageW)
	if err != nil {
		logger.Printf("warning: cannot embed image %s: %v", path, err)
		return nil
	}
	return img
}

// pseudoJSON renders the whole record as one brace-delimited text block,
// one "key": value line per entry, no trailing comma on the last.
func pseudoJSON(rec *model.Record) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	keys := rec.Keys()
	for i, key := range keys {
		v, _ := rec.Get(key)
		sb.WriteString("  ")
		sb.WriteString(strconv.Quote(key))
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
		if i < len(keys)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (e *Engine) sectionConfig() docx.SectionConfig {
	orient := docx.Landscape
	if strings.EqualFold(e.cfg.Orientation, string(docx.Portrait)) {
		orient = docx.Portrait
	}
	m := e.cfg.Margins
	if m == (model.Margins{}) {
		m = model.Margins{Left: 0.75, Right: 0.75, Top: 0.75, Bottom: 0.75}
	}
	return docx.SectionConfig{
		Orientation: orient,
		Margins: docx.Margins{
			Left:   inchesToTwips(m.Left),
			Right:  inchesToTwips(m.Right),
			Top:    inchesToTwips(m.Top),
			Bottom: inchesToTwips(m.Bottom),
		},
	}
}

// columnWidths splits the usable page width between the text and image
// columns according to the configured fractions.
func (e *Engine) columnWidths(secCfg docx.SectionConfig) (textW, imageW int) {
	total := secCfg.ContentWidth()

	frac := e.cfg.TextColumnFraction
	if frac <= 0 || frac >= 1 {
		if secCfg.Orientation == docx.Landscape {
			frac = defaultTextFractionLandscape
		} else {
			frac = defaultTextFractionPortrait
		}
	}
	if img := e.cfg.ImageColumnFraction; img > 0 && img < 1 {
		frac = 1 - img
	}

	textW = int(float64(total) * frac)
	return textW, total - textW
}

func inchesToTwips(in float64) int {
	return int(in * docx.TwipsPerInch)
}
