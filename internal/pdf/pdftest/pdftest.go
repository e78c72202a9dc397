// Package pdftest writes small single-page PDFs for tests.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

const content = "BT /F1 12 Tf 72 72 Td (Worksheet) Tj ET"

// Page describes the one page of a generated PDF.
type Page struct {
	// MediaBox as llx, lly, urx, ury.
	MediaBox [4]float64
	Rotate   int
	// Compress stores the content FlateDecode encoded.
	Compress bool
	// Split stores the content as an array of two streams.
	Split bool
}

// Template returns a one page PDF of width x height points with the given
// /Rotate, showing the word "Worksheet". The content stream is uncompressed.
func Template(width, height float64, rotate int) []byte {
	return Page{MediaBox: [4]float64{0, 0, width, height}, Rotate: rotate}.Bytes()
}

func (p Page) Bytes() []byte {
	parts := []string{content}
	if p.Split {
		i := strings.Index(content, "(")
		parts = []string{content[:i], content[i:]}
	}

	contents := "4 0 R"
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"",
		p.stream(parts[0]),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	if p.Split {
		objects = append(objects, p.stream(parts[1]))
		contents = "[4 0 R 6 0 R]"
	}
	box := p.MediaBox
	objects[2] = fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [%g %g %g %g] /Rotate %d "+
		"/Resources << /Font << /F1 5 0 R >> >> /Contents %s >>", box[0], box[1], box[2], box[3], p.Rotate, contents)

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

func (p Page) stream(s string) string {
	if !p.Compress {
		return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(s), s)
	}
	var z bytes.Buffer
	w := zlib.NewWriter(&z)
	w.Write([]byte(s))
	w.Close()
	return fmt.Sprintf("<< /Length %d /Filter /FlateDecode >>\nstream\n%s\nendstream", z.Len(), z.String())
}
