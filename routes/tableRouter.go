package routes

import (
	controller "github.com/balamurugesan03/Kotbilling/controllers"
	"github.com/balamurugesan03/Kotbilling/middleware"
	"github.com/gin-gonic/gin"
)

func TableRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/tables",
		middleware.RequirePermission(middleware.PermViewTables), controller.GetTables())
	incomingRoutes.GET("/api/tables/stats",
		middleware.RequirePermission(middleware.PermViewTables), controller.GetTableStats())
	incomingRoutes.POST("/api/tables",
		middleware.RequirePermission(middleware.PermManageTables), controller.CreateTable())
	incomingRoutes.PATCH("/api/tables/:table_id/status",
		middleware.RequirePermission(middleware.PermManageTables), controller.UpdateTableStatus())
	incomingRoutes.DELETE("/api/tables/:table_id",
		middleware.RequirePermission(middleware.PermManageTables), controller.DeleteTable())
}
