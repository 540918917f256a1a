package route

import (
	"github.com/SeakMengs/AutoQR/internal/controller"
	"github.com/gin-gonic/gin"
)

func V1_Documents(r *gin.RouterGroup, dc *controller.DocumentController, ec *controller.EditorController) {
	v1 := r.Group("/v1/documents")
	{
		v1.POST("", dc.Upload)
		v1.GET("/:token/pages/:page", dc.PageInfo)
		v1.GET("/:token/pages/:page/preview", dc.Preview)
		v1.POST("/:token/editor", ec.Editor)
		v1.POST("/:token/apply", dc.Apply)
		v1.GET("/:token/download", dc.Download)
	}
}

func V1_Defaults(r *gin.RouterGroup, ic *controller.IndexController) {
	r.GET("/v1/defaults", ic.Defaults)
}
