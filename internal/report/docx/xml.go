package docx

import (
	"fmt"
	"strings"
)

// bytesBuilder is the accumulator blocks serialize into
type bytesBuilder = strings.Builder

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const contentTypesXML = xmlHeader +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Default Extension="png" ContentType="image/png"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>` +
	`</Types>`

const rootRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// Default run properties: Calibri for Latin text, SimSun for CJK, 10.5pt.
// These match the conventions of the guideline documents the report accompanies.
const stylesXML = xmlHeader +
	`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults>` +
	`<w:rPrDefault><w:rPr>` +
	`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:eastAsia="宋体"/>` +
	`<w:sz w:val="21"/><w:szCs w:val="21"/>` +
	`</w:rPr></w:rPrDefault>` +
	`<w:pPrDefault/>` +
	`</w:docDefaults>` +
	`</w:styles>`

// Page-number footer: "current / total" bound at render time through the
// backend's native field codes, never computed here.
const footerXML = xmlHeader +
	`<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
	`<w:fldSimple w:instr=" PAGE "><w:r><w:t>1</w:t></w:r></w:fldSimple>` +
	`<w:r><w:t xml:space="preserve"> / </w:t></w:r>` +
	`<w:fldSimple w:instr=" NUMPAGES "><w:r><w:t>1</w:t></w:r></w:fldSimple>` +
	`</w:p></w:ftr>`

const footerRelID = "rId2"

// documentRelsXML lists styles, footer and every embedded image
func (d *Document) documentRelsXML() []byte {
	var sb bytesBuilder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	sb.WriteString(`<Relationship Id="` + footerRelID + `" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>`)
	for _, img := range d.images {
		sb.WriteString(`<Relationship Id="` + img.relID +
			`" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/` +
			img.name + `"/>`)
	}
	sb.WriteString(`</Relationships>`)
	return []byte(sb.String())
}

// documentXML serializes the body. Sections are delimited the way OOXML
// wants them: every section but the last ends with a paragraph-level
// sectPr (which doubles as the page break), and the final section's sectPr
// closes the body.
func (d *Document) documentXML() []byte {
	var sb bytesBuilder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:document` +
		` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	sb.WriteString(`<w:body>`)

	for i, sec := range d.sections {
		for _, b := range sec.blocks {
			b.writeXML(&sb)
		}
		if i < len(d.sections)-1 {
			sb.WriteString(`<w:p><w:pPr>`)
			writeSectPr(&sb, sec.cfg)
			sb.WriteString(`</w:pPr></w:p>`)
		} else {
			writeSectPr(&sb, sec.cfg)
		}
	}

	sb.WriteString(`</w:body></w:document>`)
	return []byte(sb.String())
}

func writeSectPr(sb *bytesBuilder, cfg SectionConfig) {
	w, h := cfg.PageSize()
	sb.WriteString(`<w:sectPr>`)
	sb.WriteString(`<w:footerReference w:type="default" r:id="` + footerRelID + `"/>`)
	sb.WriteString(fmt.Sprintf(`<w:pgSz w:w="%d" w:h="%d"`, w, h))
	if cfg.Orientation == Landscape {
		sb.WriteString(` w:orient="landscape"`)
	}
	sb.WriteString(`/>`)
	sb.WriteString(fmt.Sprintf(
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`,
		cfg.Margins.Top, cfg.Margins.Right, cfg.Margins.Bottom, cfg.Margins.Left))
	sb.WriteString(`</w:sectPr>`)
}

func (p *Paragraph) writeXML(sb *bytesBuilder) {
	sb.WriteString(`<w:p>`)
	if p.center {
		sb.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
	}
	sb.WriteString(`<w:r>`)
	if p.bold || p.sizeHalfPt > 0 {
		sb.WriteString(`<w:rPr>`)
		if p.bold {
			sb.WriteString(`<w:b/>`)
		}
		if p.sizeHalfPt > 0 {
			sb.WriteString(fmt.Sprintf(`<w:sz w:val="%d"/>`, p.sizeHalfPt))
		}
		sb.WriteString(`</w:rPr>`)
	}
	writeText(sb, p.text)
	sb.WriteString(`</w:r></w:p>`)
}

// writeText emits the run content, turning newlines into <w:br/>
func writeText(sb *bytesBuilder, text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString(`<w:br/>`)
		}
		sb.WriteString(`<w:t xml:space="preserve">`)
		sb.WriteString(escapeXML(line))
		sb.WriteString(`</w:t>`)
	}
}

func escapeXML(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (t *Table) writeXML(sb *bytesBuilder) {
	total := 0
	for _, c := range t.cols {
		total += c
	}

	sb.WriteString(`<w:tbl><w:tblPr>`)
	sb.WriteString(fmt.Sprintf(`<w:tblW w:w="%d" w:type="dxa"/>`, total))
	// Fixed layout keeps the column proportions stable no matter how long
	// the cell content runs.
	sb.WriteString(`<w:tblLayout w:type="fixed"/>`)
	if t.borders {
		sb.WriteString(`<w:tblBorders>`)
		for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			sb.WriteString(`<w:` + edge + ` w:val="single" w:sz="4" w:space="0" w:color="auto"/>`)
		}
		sb.WriteString(`</w:tblBorders>`)
	}
	sb.WriteString(`</w:tblPr>`)

	sb.WriteString(`<w:tblGrid>`)
	for _, c := range t.cols {
		sb.WriteString(fmt.Sprintf(`<w:gridCol w:w="%d"/>`, c))
	}
	sb.WriteString(`</w:tblGrid>`)

	for _, row := range t.rows {
		// No cantSplit: rows must stay free to break across pages.
		sb.WriteString(`<w:tr>`)
		for _, cell := range row.cells {
			cell.writeXML(sb)
		}
		sb.WriteString(`</w:tr>`)
	}
	sb.WriteString(`</w:tbl>`)
}

func (c *Cell) writeXML(sb *bytesBuilder) {
	sb.WriteString(`<w:tc><w:tcPr>`)
	sb.WriteString(fmt.Sprintf(`<w:tcW w:w="%d" w:type="dxa"/>`, c.width))
	switch c.merge {
	case vMergeRestart:
		sb.WriteString(`<w:vMerge w:val="restart"/>`)
	case vMergeContinue:
		sb.WriteString(`<w:vMerge/>`)
	}
	if !c.table.borders {
		// Style-level border removal is not enough: some renderers fall
		// back to default borders unless every cell carries an explicit
		// override on all four edges.
		sb.WriteString(`<w:tcBorders>`)
		for _, edge := range []string{"top", "left", "bottom", "right"} {
			sb.WriteString(`<w:` + edge + ` w:val="none" w:sz="0" w:space="0" w:color="auto"/>`)
		}
		sb.WriteString(`</w:tcBorders>`)
	}
	sb.WriteString(`</w:tcPr>`)

	wrote := false
	for _, text := range c.texts {
		sb.WriteString(`<w:p><w:r>`)
		writeText(sb, text)
		sb.WriteString(`</w:r></w:p>`)
		wrote = true
	}
	if c.image != nil {
		writeImage(sb, c.image)
		wrote = true
	}
	if !wrote {
		// A cell must contain at least one paragraph
		sb.WriteString(`<w:p/>`)
	}
	sb.WriteString(`</w:tc>`)
}

func writeImage(sb *bytesBuilder, img *Image) {
	sb.WriteString(`<w:p><w:r><w:drawing>`)
	sb.WriteString(`<wp:inline distT="0" distB="0" distL="0" distR="0">`)
	sb.WriteString(fmt.Sprintf(`<wp:extent cx="%d" cy="%d"/>`, img.cx, img.cy))
	sb.WriteString(`<wp:docPr id="1" name="` + img.name + `"/>`)
	sb.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	sb.WriteString(`<pic:pic>`)
	sb.WriteString(`<pic:nvPicPr><pic:cNvPr id="1" name="` + img.name + `"/><pic:cNvPicPr/></pic:nvPicPr>`)
	sb.WriteString(`<pic:blipFill><a:blip r:embed="` + img.relID + `"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`)
	sb.WriteString(`<pic:spPr><a:xfrm><a:off x="0" y="0"/>`)
	sb.WriteString(fmt.Sprintf(`<a:ext cx="%d" cy="%d"/>`, img.cx, img.cy))
	sb.WriteString(`</a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`)
	sb.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`)
}
