package middleware

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/gin-gonic/gin"
)

// AdminMiddleware lets through requests carrying the admin secret as a
// Bearer token.
func (m Middleware) AdminMiddleware(ctx *gin.Context) {
	token, err := util.ReadBearerToken(ctx)
	if err != nil {
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	if m.app.Config.Admin.SECRET == "" || !util.SecretEqual(token, m.app.Config.Admin.SECRET) {
		m.app.Logger.Debugw("Rejected admin request", "ip", ctx.ClientIP())
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid token", util.GenerateErrorMessages(errors.New("invalid admin secret"), "unauthorized"), nil)
		return
	}

	ctx.Next()
}
