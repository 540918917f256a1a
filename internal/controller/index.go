package controller

import (
	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/gin-gonic/gin"
)

type IndexController struct {
	*baseController
}

func (ic IndexController) Index(ctx *gin.Context) {
	util.ResponseSuccess(ctx, gin.H{
		"message": "Welcome to the " + util.GetAppName() + " api",
	})
}

// Defaults returns the placement and validation defaults the server applies
// to fields a request leaves out.
func (ic IndexController) Defaults(ctx *gin.Context) {
	util.ResponseSuccess(ctx, gin.H{
		"defaults":    ic.app.Defaults.Defaults,
		"validation":  ic.app.Defaults.Validation,
		"qrPixelSize": ic.app.Config.QR.PixelSize,
		"previewZoom": ic.app.Config.QR.PreviewZoom,
	})
}
