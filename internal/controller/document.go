package controller

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/SeakMengs/AutoQR/internal/constant"
	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	*baseController
}

const (
	ErrPdfFileRequired = "pdf file is required"
	ErrPdfExtension    = "only .pdf files are accepted"
	ErrPdfInvalid      = "pdf file is invalid or not supported"
)

// previewQRPixelSize is enough for an on-screen preview and keeps caching cheap.
const previewQRPixelSize = 256

func (dc DocumentController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile(constant.FORM_FIELD_PDF)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "No pdf file uploaded", util.GenerateErrorMessages(errors.New(ErrPdfFileRequired), constant.FORM_FIELD_PDF), nil)
		return
	}

	if !util.HasPdfExtension(file.Filename) {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid file type", util.GenerateErrorMessages(errors.New(ErrPdfExtension), constant.FORM_FIELD_PDF), nil)
		return
	}

	maxBytes := dc.app.Config.Storage.MaxUploadBytes
	if maxBytes > 0 && file.Size > maxBytes {
		util.ResponseFailed(ctx, http.StatusRequestEntityTooLarge, "File too large", util.GenerateErrorMessages(fmt.Errorf("pdf must not exceed %d MB", maxBytes>>20), constant.FORM_FIELD_PDF), nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		dc.respondError(ctx, "Failed to open upload", err, nil)
		return
	}
	defer src.Close()

	token, err := dc.app.Store.Create(src, maxBytes)
	if err != nil {
		dc.respondError(ctx, "Failed to store upload", err, nil)
		return
	}

	pageCount, err := dc.pageCount(token)
	if err != nil {
		dc.app.Logger.Debugw("Rejected upload", "file", file.Filename, "error", err)
		if err := dc.app.Store.Delete(token); err != nil {
			dc.app.Logger.Error(err)
		}
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid pdf file", util.GenerateErrorMessages(errors.New(ErrPdfInvalid), constant.FORM_FIELD_PDF), nil)
		return
	}

	dc.app.Logger.Infow("Document uploaded", "token", token, "file", file.Filename, "pages", pageCount)
	util.ResponseSuccessWithStatus(ctx, http.StatusCreated, gin.H{
		"token":     token,
		"pageCount": pageCount,
		"fileName":  file.Filename,
	})
}

func (dc DocumentController) pageCount(token string) (int, error) {
	in, err := dc.app.Store.InputPath(token)
	if err != nil {
		return 0, err
	}

	f, err := os.Open(in)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := autoqr.ValidatePdf(f); err != nil {
		return 0, err
	}
	return autoqr.GetPageCount(f)
}

type pageInfo struct {
	Page      int `json:"page"`
	PageCount int `json:"pageCount"`
	autoqr.PageGeometry
	VisibleWidthPt  float64 `json:"visibleWidthPt"`
	VisibleHeightPt float64 `json:"visibleHeightPt"`
	Unit            string  `json:"unit"`
	VisibleWidth    float64 `json:"visibleWidth"`
	VisibleHeight   float64 `json:"visibleHeight"`
	// Paper is empty when the page matches no known standard.
	Paper string `json:"paper"`
}

func (dc DocumentController) PageInfo(ctx *gin.Context) {
	token := ctx.Param("token")
	page, err := pageParam(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid page", util.GenerateErrorMessages(err, "page"), nil)
		return
	}

	unit, err := autoqr.ParseUnit(orDefault(ctx.Query("unit"), dc.app.Defaults.Defaults.Unit))
	if err != nil {
		dc.respondError(ctx, "Invalid unit", err, nil)
		return
	}

	pages, err := dc.readPages(token)
	if err != nil {
		dc.respondError(ctx, "Failed to read document", err, nil)
		return
	}
	if page > len(pages) {
		dc.respondError(ctx, "Invalid page", fmt.Errorf("%w: page %d, document has %d pages", autoqr.ErrPageOutOfRange, page, len(pages)), nil)
		return
	}

	g := pages[page-1]
	w, h := g.Visible()
	info := pageInfo{
		Page:            page,
		PageCount:       len(pages),
		PageGeometry:    g,
		VisibleWidthPt:  w,
		VisibleHeightPt: h,
		Unit:            string(unit),
		VisibleWidth:    autoqr.FromPoints(w, unit),
		VisibleHeight:   autoqr.FromPoints(h, unit),
	}
	if c, ok := autoqr.Classify(w, h, dc.app.Defaults.Validation.TolPt); ok {
		info.Paper = c.String()
	}

	util.ResponseSuccess(ctx, info)
}

// Preview renders the page box with the QR square at the requested
// placement. Renders are cached per session and parameters.
func (dc DocumentController) Preview(ctx *gin.Context) {
	type Request struct {
		PlacementForm
		Url  string   `form:"url"`
		Zoom *float64 `form:"zoom" binding:"omitempty,gt=0,lte=8"`
	}
	var body Request

	token := ctx.Param("token")
	page, err := pageParam(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid page", util.GenerateErrorMessages(err, "page"), nil)
		return
	}

	if err := ctx.ShouldBindQuery(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}
	body.Page = &page

	req, err := body.request(*dc.app.Defaults)
	if err != nil {
		dc.respondError(ctx, "Invalid placement", err, nil)
		return
	}
	zoom := valueOr(body.Zoom, dc.app.Config.QR.PreviewZoom)

	unlock, err := dc.app.Store.Lock(token)
	if err != nil {
		dc.respondError(ctx, "Failed to read document", err, nil)
		return
	}
	defer unlock()

	pages, err := dc.readPages(token)
	if err != nil {
		dc.respondError(ctx, "Failed to read document", err, nil)
		return
	}
	if page > len(pages) {
		dc.respondError(ctx, "Invalid page", fmt.Errorf("%w: page %d, document has %d pages", autoqr.ErrPageOutOfRange, page, len(pages)), nil)
		return
	}

	res, err := autoqr.Resolve(req, pages[page-1])
	if err != nil {
		dc.respondError(ctx, "Invalid placement", err, nil)
		return
	}

	key := fmt.Sprintf("page=%d|x=%.4f|y=%.4f|side=%.4f|zoom=%.3f|url=%s", page, res.X, res.Y, res.Side, zoom, body.Url)
	path, cached, err := dc.app.Store.PreviewPath(token, key)
	if err != nil {
		dc.respondError(ctx, "Failed to prepare preview", err, nil)
		return
	}

	if !cached {
		opts := autoqr.PreviewOptions{Zoom: zoom}
		if body.Url != "" {
			if opts.QRImage, err = autoqr.GenerateQRCode(body.Url, previewQRPixelSize); err != nil {
				dc.respondError(ctx, "Failed to generate QR code", err, nil)
				return
			}
		}

		start := time.Now()
		if err := autoqr.RenderPlacementPreview(pages[page-1], res.Rect, opts, path); err != nil {
			os.Remove(path)
			dc.respondError(ctx, "Failed to render preview", err, nil)
			return
		}
		dc.app.Logger.Debugw("Rendered preview", "token", token, "page", page, "took", time.Since(start))
	}

	ctx.Header("X-QR-Rect", fmt.Sprintf("%.2f %.2f %.2f", res.X, res.Y, res.Side))
	ctx.File(path)
}

// Apply stamps the QR code on the uploaded document. A strict paper check
// failure answers 422 with the findings and leaves any previous output in
// place.
func (dc DocumentController) Apply(ctx *gin.Context) {
	type Request struct {
		Url string `form:"url" json:"url" binding:"required,strNotEmpty"`
		PlacementForm
		PolicyForm
	}
	var body Request

	token := ctx.Param("token")
	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	req, err := body.request(*dc.app.Defaults)
	if err != nil {
		dc.respondError(ctx, "Invalid placement", err, nil)
		return
	}
	policy, err := body.policy(*dc.app.Defaults)
	if err != nil {
		dc.respondError(ctx, "Invalid validation settings", err, nil)
		return
	}

	unlock, err := dc.app.Store.Lock(token)
	if err != nil {
		dc.respondError(ctx, "Failed to read document", err, nil)
		return
	}
	defer unlock()

	result, err := dc.insert(ctx, token, body.Url, req, policy)
	dc.logFindings(token, result.Findings)
	if err != nil {
		dc.respondError(ctx, "Failed to insert QR code", err, result.Findings)
		return
	}

	if err := dc.app.Store.Mirror(ctx.Request.Context(), token); err != nil {
		dc.app.Logger.Warnw("Failed to mirror document", "token", token, "error", err)
	}

	findings := result.Findings
	if findings == nil {
		findings = []autoqr.Finding{}
	}
	util.ResponseSuccess(ctx, gin.H{
		"placement":   result.Rect,
		"page":        result.PageIndex,
		"findings":    findings,
		"downloadUrl": fmt.Sprintf("/api/v1/documents/%s/download", token),
	})
}

// insert writes to a temporary file first so a failed run keeps the previous
// output intact. Caller holds the session lock.
func (dc DocumentController) insert(ctx *gin.Context, token, link string, req autoqr.PlacementRequest, policy autoqr.ValidationPolicy) (autoqr.PlacementResult, error) {
	in, err := dc.app.Store.InputPath(token)
	if err != nil {
		return autoqr.PlacementResult{}, err
	}
	outPath, err := dc.app.Store.OutputPath(token)
	if err != nil {
		return autoqr.PlacementResult{}, err
	}

	src, err := os.Open(in)
	if err != nil {
		return autoqr.PlacementResult{}, err
	}
	defer src.Close()

	tmpPath := outPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return autoqr.PlacementResult{}, fmt.Errorf("failed to create output file: %w", err)
	}

	result, err := dc.app.Inserter.Insert(ctx.Request.Context(), src, out, link, req, policy)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return result, err
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return result, fmt.Errorf("failed to save output file: %w", err)
	}
	return result, nil
}

func (dc DocumentController) Download(ctx *gin.Context) {
	token := ctx.Param("token")

	path, err := dc.app.Store.ExistingOutputPath(token)
	if err != nil {
		dc.respondError(ctx, "Document not found", err, nil)
		return
	}

	ctx.FileAttachment(path, util.OutputFileName(token))
}
