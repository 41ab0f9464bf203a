package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		contentType string
		want        Format
	}{
		{"application/pdf", FormatPDF},
		{"application/msword", FormatWord},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", FormatWord},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatSheet},
		{"application/vnd.ms-excel", FormatSheet},
		{"text/csv", FormatCSV},
		{"text/csv; charset=utf-8", FormatCSV},
		{"image/png", FormatImage},
		{"image/jpeg", FormatImage},
		{"text/plain", FormatText},
		{"application/json", FormatText},
		{"application/zip", FormatUnsupported},
		{"application/octet-stream", FormatUnsupported},
		{"", FormatUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.contentType))
		})
	}
}

func TestSheetFirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "qty"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "bolts"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 40))
	_, err := f.NewSheet("Extra")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Extra", "A1", "ignored"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	text, err := Sheet(buf.Bytes())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "Sheet: Sheet1\n"))
	assert.Contains(t, text, "name,qty")
	assert.Contains(t, text, "bolts,40")
	assert.NotContains(t, text, "ignored")
}

func TestSheetCorruptWorkbook(t *testing.T) {
	_, err := Sheet([]byte("definitely not a zip archive"))
	assert.Error(t, err)
}

func TestCSV(t *testing.T) {
	text, err := CSV([]byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "Sheet: Sheet1\na,b\n1,2\n", text)
}

func TestCSVQuotedFields(t *testing.T) {
	text, err := CSV([]byte("name,note\nalice,\"hello, world\"\n"))
	require.NoError(t, err)
	assert.Contains(t, text, `alice,"hello, world"`)
}

// twoPagePDF assembles a minimal two-page PDF with one text run per
// page. Cross-reference offsets are computed while writing so the
// fixture stays valid if an object changes.
func twoPagePDF(t *testing.T) []byte {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 6 0 R >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 7 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for _, text := range []string{"Page1", "Page2"} {
		content := "BT /F1 12 Tf 72 720 Td (" + text + ") Tj ET"
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))
	for i, body := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
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

func TestPDFPageOrder(t *testing.T) {
	text, err := PDF(twoPagePDF(t))
	require.NoError(t, err)
	assert.Equal(t, "Page1 \nPage2 \n", text)
}

func TestPDFCorruptInput(t *testing.T) {
	_, err := PDF([]byte("%PDF-1.4 but truncated garbage"))
	assert.Error(t, err)
}

// docxBytes zips a minimal word-processing package with one run per
// paragraph.
func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`,
		"_rels/.rels":         `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`,
		"word/document.xml":   `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestWordDocx(t *testing.T) {
	data := docxBytes(t, "First paragraph.", "Second paragraph.")
	text, err := Word(data, docxMediaType)
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
}

func TestWordDocxParameterizedContentType(t *testing.T) {
	// Browsers send the raw header value; parameters must not push a
	// .docx upload onto the legacy .doc path.
	data := docxBytes(t, "Quarterly report body.")
	text, err := Word(data, docxMediaType+`; name="report.docx"`)
	require.NoError(t, err)
	assert.Contains(t, text, "Quarterly report body.")
}

func TestWordCorruptDocx(t *testing.T) {
	_, err := Word([]byte("not a zip archive"), docxMediaType)
	assert.Error(t, err)
}

func TestCodeBundlesFilesWithHeaders(t *testing.T) {
	out := Code([]CodeFile{
		{Name: "main.go", Data: []byte("package main\n")},
		{Name: "photo.bin", Data: []byte{0x00, 0x01}},
		{Name: "util.py", Data: []byte("x = 1\r\nprint(x)\r\n")},
	})

	assert.Contains(t, out, "--- File: main.go ---\npackage main\n")
	assert.Contains(t, out, "--- File: photo.bin ---\n"+BinaryPlaceholder)
	assert.Contains(t, out, "--- File: util.py ---\nx = 1\nprint(x)\n")

	// headers appear in upload order
	assert.Less(t, strings.Index(out, "main.go"), strings.Index(out, "photo.bin"))
	assert.Less(t, strings.Index(out, "photo.bin"), strings.Index(out, "util.py"))
}

func TestCodeEmptyBatch(t *testing.T) {
	assert.Equal(t, "", Code(nil))
}
