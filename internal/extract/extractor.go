// Package extract turns uploaded resume files into plain text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText = "text/plain"
	mimeZip  = "application/zip"
)

var (
	ErrEmptyFile        = errors.New("empty file")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrExtractionFailed = errors.New("text extraction failed")
)

// TextExtractor is the narrow interface the analysis flow depends on
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// Extractor extracts text from PDF, DOCX and plain-text resumes
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// DetectType returns the canonical MIME type used for extraction
func DetectType(filename string, data []byte) string {
	detected := mimetype.Detect(data)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case detected.Is(MIMEPDF):
		return MIMEPDF
	case detected.Is(MIMEDOCX):
		return MIMEDOCX
	case detected.Is(mimeZip) && ext == ".docx":
		return MIMEDOCX
	case detected.Is(MIMEText):
		return MIMEText
	}

	// Text-like formats (markdown, csv) sniff as their own type but read fine as text
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(MIMEText) {
			return MIMEText
		}
	}

	return detected.String()
}

// Extract returns the normalised text content of the file
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)

	switch kind := DetectType(filename, data); kind {
	case MIMEPDF:
		text, err = extractPDF(ctx, data)
	case MIMEDOCX:
		text, err = extractDOCX(data)
	case MIMEText:
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
	if err != nil {
		return "", err
	}

	return normalize(text), nil
}

func extractPDF(ctx context.Context, data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed pdf: %v", ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", ErrExtractionFailed, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtractionFailed, i, err)
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}

	return b.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parse docx: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText flattens document.xml into lines of text
func docxXMLToText(content string) string {
	content = docxParagraphEnd.ReplaceAllStringFunc(content, func(tag string) string {
		if tag == "<w:tab/>" {
			return "\t"
		}
		return "\n"
	})
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

func normalize(text string) string {
	text = strings.ToValidUTF8(text, "�")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
