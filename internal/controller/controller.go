package controller

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	appcontext "github.com/SeakMengs/AutoQR/internal/app_context"
	filestorage "github.com/SeakMengs/AutoQR/internal/file_storage"
	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Index    *IndexController
	Document *DocumentController
	Editor   *EditorController
	Admin    *AdminController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Index:    &IndexController{baseController: bc},
		Document: &DocumentController{baseController: bc},
		Editor:   &EditorController{baseController: bc},
		Admin:    &AdminController{baseController: bc},
	}
}

const ErrInvalidPageParam = "page must be a positive integer"

// readPages loads the page geometries of the uploaded document of token.
func (b *baseController) readPages(token string) ([]autoqr.PageGeometry, error) {
	in, err := b.app.Store.InputPath(token)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(in)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return autoqr.ReadPageGeometries(f)
}

func pageParam(ctx *gin.Context) (int, error) {
	page, err := strconv.Atoi(ctx.Param("page"))
	if err != nil || page < 1 {
		return 0, errors.New(ErrInvalidPageParam)
	}
	return page, nil
}

// respondError maps session and core errors to a status code. findings are
// attached to the response data when present.
func (b *baseController) respondError(ctx *gin.Context, message string, err error, findings []autoqr.Finding) {
	var data any
	if len(findings) > 0 {
		data = gin.H{"findings": findings}
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, filestorage.ErrInvalidToken),
		errors.Is(err, filestorage.ErrSessionNotFound),
		errors.Is(err, filestorage.ErrOutputNotFound):
		code = http.StatusNotFound
	case errors.Is(err, filestorage.ErrUploadTooLarge):
		code = http.StatusRequestEntityTooLarge
	case errors.Is(err, autoqr.ErrInvalidMeasurement),
		errors.Is(err, autoqr.ErrPageOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, autoqr.ErrValidationFailed):
		code = http.StatusUnprocessableEntity
	}

	if code == http.StatusInternalServerError {
		b.app.Logger.Error(err)
	} else {
		b.app.Logger.Debugw(message, "error", err)
	}
	util.ResponseFailed(ctx, code, message, util.GenerateErrorMessages(err), data)
}

// logFindings reports findings the way the command line prints them.
func (b *baseController) logFindings(token string, findings []autoqr.Finding) {
	for _, f := range findings {
		kv := []any{"token", token, "page", f.Page, "kind", f.Kind}
		switch f.Severity {
		case autoqr.SeverityError:
			b.app.Logger.Errorw(f.Message, kv...)
		case autoqr.SeverityWarning:
			b.app.Logger.Warnw(f.Message, kv...)
		default:
			b.app.Logger.Infow(f.Message, kv...)
		}
	}
}
