package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	t.Parallel()

	text, err := NewExtractor().Extract(context.Background(), "resume.txt",
		[]byte("Jane Doe\r\nReact developer\n\n\n\n\nProjects: many\n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nReact developer\n\nProjects: many", text)
}

func TestExtractEmptyFile(t *testing.T) {
	t.Parallel()

	_, err := NewExtractor().Extract(context.Background(), "resume.pdf", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestExtractUnsupportedType(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	_, err := NewExtractor().Extract(context.Background(), "photo.png", png)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractCorruptPDF(t *testing.T) {
	t.Parallel()

	_, err := NewExtractor().Extract(context.Background(), "resume.pdf", []byte("%PDF-1.4\nnot really a pdf"))
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractPDF(t *testing.T) {
	t.Parallel()

	data := buildPDF(t, "Built React and JavaScript projects")

	assert.Equal(t, MIMEPDF, DetectType("upload.bin", data))

	text, err := NewExtractor().Extract(context.Background(), "resume.pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "Built React and JavaScript projects", text)
}

func TestExtractDOCX(t *testing.T) {
	t.Parallel()

	data := buildDOCX(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Team lead &amp; React developer</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	assert.Equal(t, MIMEDOCX, DetectType("resume.docx", data))

	text, err := NewExtractor().Extract(context.Background(), "resume.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nTeam lead & React developer", text)
}

func TestExtractHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor().Extract(ctx, "resume.txt", []byte("text"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocxXMLToText(t *testing.T) {
	t.Parallel()

	got := docxXMLToText(`<w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t></w:r></w:p><w:p><w:t>C&lt;D</w:t></w:p>`)
	assert.Equal(t, "A\tB\nC<D\n", got)
}

// buildPDF writes a single-page PDF showing text in Helvetica
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"word/document.xml": documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	// mimetype expects [Content_Types].xml first and a word/ entry to recognise docx
	for _, name := range []string{"[Content_Types].xml", "word/document.xml", "word/_rels/document.xml.rels"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}
