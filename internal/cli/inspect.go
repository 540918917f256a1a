package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SeakMengs/AutoQR/internal/config"
	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/spf13/cobra"
)

type inspectOptions struct {
	inPdf      string
	tolPt      float64
	configPath string
	outputJSON bool
}

type pageReport struct {
	Page int `json:"page"`
	autoqr.PageGeometry
	VisibleWidthPt  float64 `json:"visibleWidthPt"`
	VisibleHeightPt float64 `json:"visibleHeightPt"`
	Paper           string  `json:"paper"`
}

func (a *App) newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print page sizes, rotation and paper classification of a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("tol-pt") {
				opts.tolPt = a.loadDefaults(opts.configPath).Validation.TolPt
			}
			return a.inspect(opts)
		},
	}

	cmd.Flags().StringVar(&opts.inPdf, "in-pdf", "", "PDF to inspect (required)")
	cmd.Flags().Float64Var(&opts.tolPt, "tol-pt", config.HardDefaults().Validation.TolPt, "Tolerance in points when matching paper sizes")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to config.json")
	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("in-pdf")

	return cmd
}

func (a *App) inspect(opts *inspectOptions) error {
	if opts.tolPt < 0 {
		return fmt.Errorf("%w: --tol-pt must not be negative", autoqr.ErrInvalidMeasurement)
	}

	f, err := os.Open(opts.inPdf)
	if err != nil {
		return fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	pages, err := autoqr.ReadPageGeometries(f)
	if err != nil {
		return err
	}

	reports := make([]pageReport, 0, len(pages))
	for i, g := range pages {
		w, h := g.Visible()
		r := pageReport{Page: i + 1, PageGeometry: g, VisibleWidthPt: w, VisibleHeightPt: h}
		if c, ok := autoqr.Classify(w, h, opts.tolPt); ok {
			r.Paper = c.String()
		}
		reports = append(reports, r)
	}

	if opts.outputJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, r := range reports {
		paper := r.Paper
		if paper == "" {
			paper = "unknown paper"
		}
		crop := ""
		if r.Cropped() {
			crop = fmt.Sprintf(", crop %.2f x %.2f pt", r.CropWidthPt, r.CropHeightPt)
		}
		fmt.Fprintf(a.stdout, "Page %d: %.2f x %.2f pt%s, rotation %d, visible %.2f x %.2f pt (%.2f x %.2f cm), %s\n",
			r.Page, r.RawWidthPt, r.RawHeightPt, crop, r.RotationDegrees,
			r.VisibleWidthPt, r.VisibleHeightPt,
			autoqr.FromPoints(r.VisibleWidthPt, autoqr.UnitCentimeter), autoqr.FromPoints(r.VisibleHeightPt, autoqr.UnitCentimeter),
			paper)
	}
	return nil
}
