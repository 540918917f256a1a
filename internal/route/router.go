package route

import (
	appcontext "github.com/SeakMengs/AutoQR/internal/app_context"
	"github.com/SeakMengs/AutoQR/internal/controller"
	"github.com/SeakMengs/AutoQR/internal/middleware"
	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NewRouter wires every route of the api on a fresh engine.
func NewRouter(app *appcontext.Application, c *controller.Controller, m *middleware.Middleware) (*gin.Engine, error) {
	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidations(v); err != nil {
			return nil, err
		}
	}

	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-QR-Rect", "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(m.RateLimiterMiddleware)

	r.GET("/", c.Index.Index)

	rApi := r.Group("/api")

	V1_Defaults(rApi, c.Index)
	V1_Documents(rApi, c.Document, c.Editor)
	V1_Admin(rApi, c.Admin, m)

	return r, nil
}
