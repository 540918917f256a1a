package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/SeakMengs/AutoQR/internal/config"
	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/spf13/cobra"
)

type insertOptions struct {
	url    string
	inPdf  string
	outPdf string

	page     int
	x, y     float64
	unit     string
	size     float64
	sizeUnit string
	origin   string

	tolPt         float64
	paperCheck    string
	checkAllPages bool
	paperDimMode  string

	configPath string
	qrPx       int
}

func (a *App) newInsertCmd() *cobra.Command {
	opts := &insertOptions{}
	hard := config.HardDefaults()

	cmd := &cobra.Command{
		Use:   "insertqr",
		Short: "Stamp a QR code encoding a URL onto a page of an existing PDF",
		Long: `insertqr generates a QR code for a URL and draws it on one page of an
existing PDF. The page is checked against A4 and Letter first; in strict
mode a mismatch aborts before anything is written.

Coordinates are in PDF space by default: x, y is the bottom-left corner of
the QR square measured from the bottom-left of the visible page. Use
--origin top-left to measure y from the top edge instead.

Flags left out fall back to config.json (working directory, next to the
binary, or up to five parent directories) and then to built-in defaults.

Examples:
  insertqr --url https://example.com --in-pdf in.pdf --out-pdf out.pdf \
    --page 1 --x 2 --y 3 --unit cm --size 4 --size-unit cm

  insertqr --url https://example.com --in-pdf in.pdf --paper-check strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInsert(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", "", "URL to encode in the QR code (required)")
	f.StringVar(&opts.inPdf, "in-pdf", "", "Input PDF (required)")
	f.StringVar(&opts.outPdf, "out-pdf", "", "Output PDF (default: <in-pdf>_con_qr.pdf)")
	f.IntVar(&opts.page, "page", hard.Defaults.Page, "Target page, 1 is the first")
	f.Float64Var(&opts.x, "x", hard.Defaults.X, "X of the QR square")
	f.Float64Var(&opts.y, "y", hard.Defaults.Y, "Y of the QR square")
	f.StringVar(&opts.unit, "unit", hard.Defaults.Unit, "Unit of x and y: cm, mm or pt")
	f.Float64Var(&opts.size, "size", hard.Defaults.Size, "Side of the QR square")
	f.StringVar(&opts.sizeUnit, "size-unit", hard.Defaults.SizeUnit, "Unit of size: cm, mm or pt")
	f.StringVar(&opts.origin, "origin", string(autoqr.OriginBottomLeft), "Origin of x and y: bottom-left or top-left")
	f.Float64Var(&opts.tolPt, "tol-pt", hard.Validation.TolPt, "Tolerance in points when matching paper sizes")
	f.StringVar(&opts.paperCheck, "paper-check", hard.Validation.PaperCheck, "warn: report and continue, strict: abort on unknown paper")
	f.BoolVar(&opts.checkAllPages, "check-all-pages", hard.Validation.CheckAllPages, "Check every page instead of the target page only")
	f.StringVar(&opts.paperDimMode, "paper-dim-mode", hard.Validation.PaperDimMode, "visible: honour /Rotate, mediabox: raw MediaBox")
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to config.json")
	f.IntVar(&opts.qrPx, "qr-px", autoqr.DefaultQRPixelSize, "Pixel width of the generated QR image")

	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("in-pdf")

	return cmd
}

// applyDefaults fills every flag the user did not set from config.json.
func (opts *insertOptions) applyDefaults(cmd *cobra.Command, d config.QRDefaults) {
	f := cmd.Flags()
	if !f.Changed("page") {
		opts.page = d.Defaults.Page
	}
	if !f.Changed("x") {
		opts.x = d.Defaults.X
	}
	if !f.Changed("y") {
		opts.y = d.Defaults.Y
	}
	if !f.Changed("unit") {
		opts.unit = d.Defaults.Unit
	}
	if !f.Changed("size") {
		opts.size = d.Defaults.Size
	}
	if !f.Changed("size-unit") {
		opts.sizeUnit = d.Defaults.SizeUnit
	}
	if !f.Changed("tol-pt") {
		opts.tolPt = d.Validation.TolPt
	}
	if !f.Changed("paper-check") {
		opts.paperCheck = d.Validation.PaperCheck
	}
	if !f.Changed("check-all-pages") {
		opts.checkAllPages = d.Validation.CheckAllPages
	}
	if !f.Changed("paper-dim-mode") {
		opts.paperDimMode = d.Validation.PaperDimMode
	}
}

func (opts *insertOptions) request() (autoqr.PlacementRequest, error) {
	unit, err := autoqr.ParseUnit(opts.unit)
	if err != nil {
		return autoqr.PlacementRequest{}, fmt.Errorf("--unit: %w", err)
	}
	sizeUnit, err := autoqr.ParseUnit(opts.sizeUnit)
	if err != nil {
		return autoqr.PlacementRequest{}, fmt.Errorf("--size-unit: %w", err)
	}
	origin, err := autoqr.ParseCoordinateOrigin(opts.origin)
	if err != nil {
		return autoqr.PlacementRequest{}, fmt.Errorf("--origin: %w", err)
	}

	return autoqr.PlacementRequest{
		X:         autoqr.Measurement{Value: opts.x, Unit: unit},
		Y:         autoqr.Measurement{Value: opts.y, Unit: unit},
		Side:      autoqr.Measurement{Value: opts.size, Unit: sizeUnit},
		Origin:    origin,
		PageIndex: opts.page,
	}, nil
}

func (opts *insertOptions) policy() (autoqr.ValidationPolicy, error) {
	mode, err := autoqr.ParseValidationMode(opts.paperCheck)
	if err != nil {
		return autoqr.ValidationPolicy{}, fmt.Errorf("--paper-check: %w", err)
	}
	basis, err := autoqr.ParseDimensionBasis(opts.paperDimMode)
	if err != nil {
		return autoqr.ValidationPolicy{}, fmt.Errorf("--paper-dim-mode: %w", err)
	}

	return autoqr.ValidationPolicy{
		Mode:          mode,
		TolerancePt:   opts.tolPt,
		Basis:         basis,
		CheckAllPages: opts.checkAllPages,
		TargetPage:    opts.page,
	}, nil
}

func (a *App) runInsert(cmd *cobra.Command, opts *insertOptions) error {
	opts.applyDefaults(cmd, a.loadDefaults(opts.configPath))

	req, err := opts.request()
	if err != nil {
		return err
	}
	policy, err := opts.policy()
	if err != nil {
		return err
	}
	if opts.outPdf == "" {
		opts.outPdf = util.DefaultOutputPath(opts.inPdf)
	}

	in, err := os.Open(opts.inPdf)
	if err != nil {
		return fmt.Errorf("failed to open input pdf: %w", err)
	}
	defer in.Close()

	a.logger.Debugw("Inserting QR code", "in", opts.inPdf, "out", opts.outPdf, "request", req, "policy", policy)

	var out bytes.Buffer
	result, err := autoqr.NewInserter(opts.qrPx).Insert(cmd.Context(), in, &out, opts.url, req, policy)
	a.printFindings(result.Findings)
	if err != nil {
		var verr *autoqr.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("paper check failed, %s was not written: %w", opts.outPdf, err)
		}
		return err
	}

	if err := os.WriteFile(opts.outPdf, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output pdf: %w", err)
	}

	a.logger.Debugw("QR placed", "page", result.PageIndex, "rect", result.Rect)
	fmt.Fprintf(a.stdout, "OK: generated %s\n", opts.outPdf)
	return nil
}

func (a *App) printFindings(findings []autoqr.Finding) {
	for _, f := range findings {
		fmt.Fprintln(a.stdout, f.String())
	}
}
