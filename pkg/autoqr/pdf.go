package autoqr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func newPdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// ValidatePdf checks that rs holds a readable PDF.
func ValidatePdf(rs io.ReadSeeker) error {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := api.Validate(rs, newPdfConfig()); err != nil {
		return fmt.Errorf("invalid pdf: %w", err)
	}
	return nil
}

func GetPageCount(rs io.ReadSeeker) (int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := api.PageCount(rs, newPdfConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return n, nil
}

// ReadPageGeometries returns the MediaBox, CropBox and /Rotate of every page,
// in page order. Inherited attributes from the page tree are resolved.
func ReadPageGeometries(rs io.ReadSeeker) ([]PageGeometry, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ctx, err := api.ReadContext(rs, newPdfConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	pages := make([]PageGeometry, 0, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		_, _, inh, err := ctx.PageDict(i, false)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		if inh == nil || inh.MediaBox == nil {
			return nil, fmt.Errorf("page %d has no MediaBox", i)
		}
		g := NewPageGeometry(inh.MediaBox.Width(), inh.MediaBox.Height(), inh.Rotate)
		// StampImage anchors at the CropBox, so placement must use it too.
		if inh.CropBox != nil {
			g = g.WithCropBox(inh.CropBox.Width(), inh.CropBox.Height())
		}
		pages = append(pages, g)
	}

	return pages, nil
}

// StampImage draws the PNG image on top of page at rect and writes the
// resulting document to w. The page's own content is left untouched.
// imagePx is the pixel width of the square image.
func StampImage(rs io.ReadSeeker, w io.Writer, page int, img []byte, imagePx int, rect Rect) error {
	if imagePx <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %d px", ErrInvalidMeasurement, imagePx)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return err
	}

	// pos: bl anchors the offset at the bottom-left corner of the visible page,
	// which is the origin of rect. scale abs sizes the image relative to its
	// pixel width.
	description := fmt.Sprintf("pos: bl, off: %.4f %.4f, scale: %.6f abs, rotation: 0, opacity: 1",
		rect.X, rect.Y, rect.Side/float64(imagePx))
	onTop := true

	wm, err := api.ImageWatermarkForReader(bytes.NewReader(img), description, onTop, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to prepare QR stamp: %w", err)
	}

	selectedPages := []string{fmt.Sprintf("%d", page)}
	if err := api.AddWatermarks(rs, w, selectedPages, wm, newPdfConfig()); err != nil {
		return fmt.Errorf("failed to stamp QR code on page %d: %w", page, err)
	}
	return nil
}
