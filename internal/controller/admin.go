package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SeakMengs/AutoQR/internal/constant"
	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	*baseController
}

// PurgeDocuments removes sessions not used for olderThan (default 24h).
func (ac AdminController) PurgeDocuments(ctx *gin.Context) {
	olderThan, err := time.ParseDuration(ctx.DefaultQuery("olderThan", constant.DEFAULT_PURGE_AGE))
	if err != nil || olderThan < 0 {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid duration", util.GenerateErrorMessages(fmt.Errorf("olderThan must be a non-negative duration such as 24h, got %q", ctx.Query("olderThan")), "olderThan"), nil)
		return
	}

	removed, err := ac.app.Store.PurgeOlderThan(olderThan)
	if err != nil {
		ac.respondError(ctx, "Failed to purge documents", err, nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"removed":   removed,
		"olderThan": olderThan.String(),
	})
}
