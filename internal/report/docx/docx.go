// Package docx writes minimal WordprocessingML documents: a zip container
// with document.xml plus the styles, footer, relationship and media parts
// the evidence report needs. Only the features the report layout uses are
// modeled: sectioned pages with orientation and margins, fixed-layout
// tables with vertical cell merge and per-cell border control, inline PNG
// images, and a page-number footer driven by field codes.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// Orientation of a section's pages
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Letter page size in twips (1/20 pt), portrait
const (
	pageWidthTwips  = 12240
	pageHeightTwips = 15840
)

// TwipsPerInch converts inches to the twentieths-of-a-point unit used
// throughout WordprocessingML.
const TwipsPerInch = 1440

// emuPerTwip converts twips to English Metric Units used by DrawingML
const emuPerTwip = 635

// Margins holds section margins in twips
type Margins struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// SectionConfig controls one section's page geometry
type SectionConfig struct {
	Orientation Orientation
	Margins     Margins
}

// PageSize returns the section's page width and height in twips
func (c SectionConfig) PageSize() (w, h int) {
	if c.Orientation == Landscape {
		return pageHeightTwips, pageWidthTwips
	}
	return pageWidthTwips, pageHeightTwips
}

// ContentWidth returns the usable width between margins in twips
func (c SectionConfig) ContentWidth() int {
	w, _ := c.PageSize()
	return w - c.Margins.Left - c.Margins.Right
}

// Document is an in-memory DOCX being assembled
type Document struct {
	sections []*Section
	images   []*Image
}

// New creates an empty document. At least one section must be added before
// saving.
func New() *Document {
	return &Document{}
}

// AddSection appends a section; every section starts on a fresh page
func (d *Document) AddSection(cfg SectionConfig) *Section {
	s := &Section{cfg: cfg}
	d.sections = append(d.sections, s)
	return s
}

// Image is an embedded PNG with its display size
type Image struct {
	data  []byte
	relID string
	name  string
	cx    int64 // display width, EMU
	cy    int64 // display height, EMU
}

// AddImagePNG reads and registers a PNG file, scaled to the given display
// width (twips) preserving aspect ratio.
func (d *Document) AddImagePNG(path string, widthTwips int) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode PNG header %s: %w", filepath.Base(path), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image %s has no size", filepath.Base(path))
	}

	cx := int64(widthTwips) * emuPerTwip
	cy := cx * int64(cfg.Height) / int64(cfg.Width)

	img := &Image{
		data:  data,
		relID: fmt.Sprintf("rId%d", 100+len(d.images)),
		name:  fmt.Sprintf("image%d.png", len(d.images)+1),
		cx:    cx,
		cy:    cy,
	}
	d.images = append(d.images, img)
	return img, nil
}

// Section is one independently paginated unit of the document
type Section struct {
	cfg    SectionConfig
	blocks []block
}

// block is any body-level element (paragraph or table)
type block interface {
	writeXML(sb *bytesBuilder)
}

// AddParagraph appends a plain paragraph
func (s *Section) AddParagraph(text string) *Paragraph {
	p := &Paragraph{text: text}
	s.blocks = append(s.blocks, p)
	return p
}

// AddHeading appends a bold, enlarged title paragraph
func (s *Section) AddHeading(text string) *Paragraph {
	p := &Paragraph{text: text, bold: true, sizeHalfPt: 32, center: true}
	s.blocks = append(s.blocks, p)
	return p
}

// Paragraph is a single-run paragraph
type Paragraph struct {
	text       string
	bold       bool
	sizeHalfPt int // 0 = inherit
	center     bool
}

// Center aligns the paragraph horizontally
func (p *Paragraph) Center() *Paragraph {
	p.center = true
	return p
}

// AddTable appends a table with the given column widths (twips).
//
// The layout is always fixed-width so column proportions hold regardless of
// content, and rows are left free to split across page boundaries.
func (s *Section) AddTable(colWidths []int, borders bool) *Table {
	t := &Table{cols: colWidths, borders: borders}
	s.blocks = append(s.blocks, t)
	return t
}

// Table is a fixed-layout table
type Table struct {
	cols    []int
	rows    []*Row
	borders bool
}

// AddRow appends a row
func (t *Table) AddRow() *Row {
	r := &Row{table: t}
	t.rows = append(t.rows, r)
	return r
}

// Row is a table row
type Row struct {
	table *Table
	cells []*Cell
}

// AddCell appends a cell of the given width (twips)
func (r *Row) AddCell(width int) *Cell {
	c := &Cell{table: r.table, width: width}
	r.cells = append(r.cells, c)
	return c
}

// VMerge values for vertically merged cell runs
type vMerge string

const (
	vMergeNone     vMerge = ""
	vMergeRestart  vMerge = "restart"
	vMergeContinue vMerge = "continue"
)

// Cell is a table cell
type Cell struct {
	table *Table
	width int
	texts []string
	image *Image
	merge vMerge
}

// AddText appends one paragraph of text to the cell. Embedded newlines
// become line breaks within the paragraph.
func (c *Cell) AddText(text string) *Cell {
	c.texts = append(c.texts, text)
	return c
}

// SetImage places an embedded image in the cell
func (c *Cell) SetImage(img *Image) *Cell {
	c.image = img
	return c
}

// MergeDown starts a vertical merge run at this cell
func (c *Cell) MergeDown() *Cell {
	c.merge = vMergeRestart
	return c
}

// MergeContinue absorbs this cell into the merge run started above it
func (c *Cell) MergeContinue() *Cell {
	c.merge = vMergeContinue
	return c
}

// SaveToFile writes the document to path, creating parent directories
func (d *Document) SaveToFile(path string) error {
	if path == "" {
		return fmt.Errorf("no output path for document")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create document file: %w", err)
	}
	if err := d.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close document file: %w", err)
	}
	return nil
}

// Write serializes the document as a DOCX zip container
func (d *Document) Write(w io.Writer) error {
	if len(d.sections) == 0 {
		return fmt.Errorf("document has no sections")
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"word/document.xml", d.documentXML()},
		{"word/_rels/document.xml.rels", d.documentRelsXML()},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/footer1.xml", []byte(footerXML)},
	}
	for _, img := range d.images {
		parts = append(parts, struct {
			name string
			data []byte
		}{"word/media/" + img.name, img.data})
	}

	for _, part := range parts {
		fw, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", part.name, err)
		}
		if _, err := fw.Write(part.data); err != nil {
			return fmt.Errorf("write zip entry %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	return nil
}
