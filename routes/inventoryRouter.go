package routes

import (
	controller "github.com/balamurugesan03/Kotbilling/controllers"
	"github.com/balamurugesan03/Kotbilling/middleware"
	"github.com/gin-gonic/gin"
)

func InventoryRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/inventory",
		middleware.RequirePermission(middleware.PermManageInventory, middleware.PermViewDashboard), controller.GetInventoryItems())
	incomingRoutes.GET("/api/inventory/stats",
		middleware.RequirePermission(middleware.PermManageInventory, middleware.PermViewDashboard), controller.GetInventoryStats())
	incomingRoutes.POST("/api/inventory",
		middleware.RequirePermission(middleware.PermManageInventory), controller.CreateInventoryItem())
	incomingRoutes.PATCH("/api/inventory/:inventory_item_id",
		middleware.RequirePermission(middleware.PermManageInventory), controller.UpdateInventoryItem())
	incomingRoutes.PATCH("/api/inventory/:inventory_item_id/stock",
		middleware.RequirePermission(middleware.PermManageInventory), controller.AdjustStock())
	incomingRoutes.DELETE("/api/inventory/:inventory_item_id",
		middleware.RequirePermission(middleware.PermManageInventory), controller.DeleteInventoryItem())
}
