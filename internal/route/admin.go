package route

import (
	"github.com/SeakMengs/AutoQR/internal/controller"
	"github.com/SeakMengs/AutoQR/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Admin(r *gin.RouterGroup, ac *controller.AdminController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/admin")
	v1.Use(middleware.AdminMiddleware)
	{
		v1.DELETE("/documents", ac.PurgeDocuments)
	}
}
