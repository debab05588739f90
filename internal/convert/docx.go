package convert

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// WordprocessingML part names
const (
	docxDocumentPart     = "word/document.xml"
	docxStylesPart       = "word/styles.xml"
	docxDocumentRelsPart = "word/_rels/document.xml.rels"
	docxRelsPart         = "_rels/.rels"
	docxContentTypesPart = "[Content_Types].xml"

	// HeadingStyle is the paragraph style of the title written into new documents
	HeadingStyle = "Heading1"
)

// ErrNotDocx is returned when a file has no main document part
var ErrNotDocx = errors.New("not a docx document")

// Paragraph is one block of text from a document body
type Paragraph struct {
	Style string
	Text  string
}

// IsHeading reports whether the paragraph uses a title or heading style
func (p Paragraph) IsHeading() bool {
	return p.Style == "Title" || strings.HasPrefix(p.Style, "Heading")
}

// ReadDocxParagraphs returns the body paragraphs of a DOCX file in document order.
// Tabs and line breaks inside a paragraph are kept as \t and \n.
func ReadDocxParagraphs(path string) ([]Paragraph, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Errorf("opening docx: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != docxDocumentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Errorf("opening %s: %w", docxDocumentPart, err)
		}
		defer rc.Close()
		return parseDocumentXML(rc)
	}
	return nil, ErrNotDocx
}

func parseDocumentXML(r io.Reader) ([]Paragraph, error) {
	dec := xml.NewDecoder(r)

	// open paragraphs; text boxes nest a paragraph inside another one
	type openParagraph struct {
		Paragraph
		text strings.Builder
	}

	var (
		paragraphs []Paragraph
		stack      []*openParagraph
		inText     bool
		inProps    bool // tab stops inside paragraph properties are not text
	)
	current := func() *openParagraph {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("parsing document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p := current()
			switch t.Name.Local {
			case "p":
				stack = append(stack, &openParagraph{})
			case "pPr":
				inProps = true
			case "pStyle":
				if p != nil {
					p.Style = attrValue(t, "val")
				}
			case "t":
				inText = true
			case "tab":
				if p != nil && !inProps {
					p.text.WriteByte('\t')
				}
			case "br", "cr":
				if p != nil {
					p.text.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "pPr":
				inProps = false
			case "p":
				if p := current(); p != nil {
					stack = stack[:len(stack)-1]
					p.Text = p.text.String()
					paragraphs = append(paragraphs, p.Paragraph)
				}
			}
		case xml.CharData:
			if p := current(); inText && p != nil {
				p.text.Write(t)
			}
		}
	}
	return paragraphs, nil
}

func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// ExtractDocxText returns the plain text of a DOCX file, one line per paragraph
func ExtractDocxText(path string) (string, error) {
	paragraphs, err := ReadDocxParagraphs(path)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		lines[i] = p.Text
	}
	return strings.Join(lines, "\n"), nil
}

func docxToText(sourcePath, outputPath string) error {
	text, err := ExtractDocxText(sourcePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return errors.Errorf("writing text: %w", err)
	}
	return nil
}

// SanitizeDocxText keeps only ASCII, replaces form feeds with a space and drops
// control characters XML cannot carry
func SanitizeDocxText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\f':
			b.WriteByte(' ')
		case r == '\t' || r == '\n':
			b.WriteRune(r)
		case r < 0x20 || r >= 0x7f:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func textToDocx(sourcePath, outputPath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Errorf("reading text: %w", err)
	}
	title := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	body := string(data)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	return WriteDocx(outputPath, []Paragraph{
		{Style: HeadingStyle, Text: SanitizeDocxText(title)},
		{Text: SanitizeDocxText(body)},
	})
}

// WriteDocx writes a minimal WordprocessingML package holding paragraphs
func WriteDocx(path string, paragraphs []Paragraph) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating docx: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = errors.Errorf("closing docx: %w", cerr)
		}
	}()

	zw := zip.NewWriter(out)
	parts := []struct {
		name string
		body string
	}{
		{docxContentTypesPart, contentTypesXML},
		{docxRelsPart, packageRelsXML},
		{docxDocumentRelsPart, documentRelsXML},
		{docxStylesPart, stylesXML},
		{docxDocumentPart, documentXML(paragraphs)},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return errors.Errorf("adding %s: %w", part.name, err)
		}
		if _, err := io.WriteString(w, part.body); err != nil {
			return errors.Errorf("writing %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Errorf("finishing docx: %w", err)
	}
	return nil
}

func documentXML(paragraphs []Paragraph) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="` + wordNamespace + `"><w:body>`)
	for _, p := range paragraphs {
		b.WriteString("<w:p>")
		if p.Style != "" {
			b.WriteString(`<w:pPr><w:pStyle w:val="`)
			escape(&b, p.Style)
			b.WriteString(`"/></w:pPr>`)
		}
		b.WriteString("<w:r>")
		for i, line := range strings.Split(p.Text, "\n") {
			if i > 0 {
				b.WriteString("<w:br/>")
			}
			for j, chunk := range strings.Split(line, "\t") {
				if j > 0 {
					b.WriteString("<w:tab/>")
				}
				if chunk == "" {
					continue
				}
				b.WriteString(`<w:t xml:space="preserve">`)
				escape(&b, chunk)
				b.WriteString("</w:t>")
			}
		}
		b.WriteString("</w:r></w:p>")
	}
	b.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`)
	return b.String()
}

func escape(b *strings.Builder, s string) {
	// strings.Builder never fails
	_ = xml.EscapeText(b, []byte(s))
}

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const stylesXML = xml.Header + `<w:styles xmlns:w="` + wordNamespace + `">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>` +
	`<w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="480" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>` +
	`</w:styles>`
