package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/sheets-storefront/internal/config"
	"github.com/iyhunko/sheets-storefront/internal/http/controller"
	"github.com/iyhunko/sheets-storefront/internal/http/middleware"
)

func InitRouter(conf *config.Config, server *gin.Engine, ctr *controller.Controller, catalogueCtr *controller.CatalogueController, adminCtr *controller.AdminController) *gin.Engine {
	httpMiddleware := middleware.New(conf)

	server.Use(middleware.Logger())
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.CORS())

	server.GET("/ping", ctr.Ping)

	// Storefront endpoints
	server.GET("/products", catalogueCtr.ListProducts)
	server.GET("/categories", catalogueCtr.ListCategories)
	server.GET("/inquiry", catalogueCtr.Inquire)

	// Operator endpoints
	admin := server.Group("/admin", httpMiddleware.AdminAuth())
	{
		admin.POST("/refresh", adminCtr.Refresh)
		admin.GET("/snapshots", adminCtr.ListSnapshots)
	}

	return server
}
