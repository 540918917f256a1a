// Package testutil builds small in-memory PDFs for tests.
package testutil

import (
	"bytes"
	"fmt"
)

type Page struct {
	Width, Height float64
	Rotate        int
	// CropWidth and CropHeight add a CropBox anchored at the origin when set.
	CropWidth, CropHeight float64
}

// BuildPdf returns a minimal, well-formed PDF with one page per entry, each
// with its own MediaBox and /Rotate and a tiny content stream.
func BuildPdf(pages ...Page) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))

	for i, p := range pages {
		crop := ""
		if p.CropWidth > 0 && p.CropHeight > 0 {
			crop = fmt.Sprintf(" /CropBox [0 0 %.2f %.2f]", p.CropWidth, p.CropHeight)
		}
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f]%s /Rotate %d /Resources << >> /Contents %d 0 R >>",
			p.Width, p.Height, crop, p.Rotate, 4+2*i))
		content := "0 0 m 10 10 l S"
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

func A4() Page     { return Page{Width: 595.28, Height: 841.89} }
func Letter() Page { return Page{Width: 612, Height: 792} }
