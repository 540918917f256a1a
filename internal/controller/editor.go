package controller

import (
	"fmt"
	"net/http"

	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/gin-gonic/gin"
)

type EditorController struct {
	*baseController
}

const (
	EditorActionMove   = "move"
	EditorActionResize = "resize"
	EditorActionCursor = "cursor"
)

// minEditorSidePt keeps a resized square grabbable.
const minEditorSidePt = 5.0

type editorResponse struct {
	Unit     string  `json:"unit"`
	SizeUnit string  `json:"sizeUnit"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	// Visual is the square in top-left origin points, Pixels the same square
	// on the rendered preview before display zoom.
	Visual autoqr.VisualRect `json:"visual"`
	Pixels autoqr.PixelRect  `json:"pixels"`
	// Pdf is the square in PDF space as apply would stamp it.
	Pdf      autoqr.Rect      `json:"pdf"`
	Findings []autoqr.Finding `json:"findings"`
	// Cursor is the pointer position in Unit, only for the cursor action.
	Cursor *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"cursor,omitempty"`
}

// Editor gives drag and resize feedback for the QR square drawn on a page
// preview. The square is given in top-left coordinates of the visible page
// and mouse input in screen pixels of a preview rendered at previewWidth x
// previewHeight and displayed at zoom.
func (ec EditorController) Editor(ctx *gin.Context) {
	type Request struct {
		Page          int     `json:"page" binding:"required,min=1"`
		PreviewWidth  int     `json:"previewWidth" binding:"required,gt=0"`
		PreviewHeight int     `json:"previewHeight" binding:"required,gt=0"`
		Zoom          float64 `json:"zoom" binding:"gte=0"`
		Unit          string  `json:"unit" binding:"unit"`
		SizeUnit      string  `json:"sizeUnit" binding:"unit"`
		X             float64 `json:"x"`
		Y             float64 `json:"y"`
		Size          float64 `json:"size" binding:"gt=0"`
		Action        string  `json:"action" binding:"required,oneof=move resize cursor"`
		Corner        string  `json:"corner" binding:"corner"`
		DX            float64 `json:"dx"`
		DY            float64 `json:"dy"`
		CursorX       float64 `json:"cursorX"`
		CursorY       float64 `json:"cursorY"`
		// Clamp keeps the square inside the visible page.
		Clamp bool `json:"clamp"`
	}
	var body Request

	token := ctx.Param("token")
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	unit, err := autoqr.ParseUnit(orDefault(body.Unit, ec.app.Defaults.Defaults.Unit))
	if err != nil {
		ec.respondError(ctx, "Invalid unit", err, nil)
		return
	}
	sizeUnit, err := autoqr.ParseUnit(orDefault(body.SizeUnit, string(unit)))
	if err != nil {
		ec.respondError(ctx, "Invalid unit", err, nil)
		return
	}

	pages, err := ec.readPages(token)
	if err != nil {
		ec.respondError(ctx, "Failed to read document", err, nil)
		return
	}
	if body.Page > len(pages) {
		ec.respondError(ctx, "Invalid page", fmt.Errorf("%w: page %d, document has %d pages", autoqr.ErrPageOutOfRange, body.Page, len(pages)), nil)
		return
	}
	geom := pages[body.Page-1]

	scale, err := autoqr.NewPixelScale(body.PreviewWidth, body.PreviewHeight, geom)
	if err != nil {
		ec.respondError(ctx, "Invalid preview size", err, nil)
		return
	}

	rect := autoqr.VisualRect{
		X:    autoqr.ToPoints(body.X, unit),
		Y:    autoqr.ToPoints(body.Y, unit),
		Side: autoqr.ToPoints(body.Size, sizeUnit),
	}

	resp := editorResponse{Unit: string(unit), SizeUnit: string(sizeUnit)}

	switch body.Action {
	case EditorActionMove:
		dx, dy := scale.DeltaToPoints(body.DX, body.DY, body.Zoom)
		rect = autoqr.MoveBy(rect, dx, dy)
	case EditorActionResize:
		corner, err := autoqr.ParseCorner(orDefault(body.Corner, string(autoqr.CornerBottomRight)))
		if err != nil {
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid corner", util.GenerateErrorMessages(err, "corner"), nil)
			return
		}
		dx, dy := scale.DeltaToPoints(body.DX, body.DY, body.Zoom)
		rect = autoqr.ResizeFromCorner(rect, corner, dx, dy, minEditorSidePt)
	case EditorActionCursor:
		zoom := body.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		cx, cy := scale.PixelToPoint(body.CursorX/zoom, body.CursorY/zoom)
		resp.Cursor = &struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		}{X: autoqr.FromPoints(cx, unit), Y: autoqr.FromPoints(cy, unit)}
	}

	if body.Clamp {
		rect = autoqr.ClampToPage(rect, geom)
	}

	placed, err := autoqr.Resolve(autoqr.PlacementRequest{
		X:         autoqr.Pt(rect.X),
		Y:         autoqr.Pt(rect.Y),
		Side:      autoqr.Pt(rect.Side),
		Origin:    autoqr.OriginTopLeft,
		PageIndex: body.Page,
	}, geom)
	if err != nil {
		ec.respondError(ctx, "Invalid placement", err, nil)
		return
	}

	resp.X = autoqr.FromPoints(rect.X, unit)
	resp.Y = autoqr.FromPoints(rect.Y, unit)
	resp.Size = autoqr.FromPoints(rect.Side, sizeUnit)
	resp.Visual = rect
	resp.Pixels = scale.PointsToPixels(rect)
	resp.Pdf = placed.Rect
	resp.Findings = placed.Findings
	if resp.Findings == nil {
		resp.Findings = []autoqr.Finding{}
	}

	util.ResponseSuccess(ctx, resp)
}
