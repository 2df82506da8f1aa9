package routes

import (
	controller "github.com/balamurugesan03/Kotbilling/controllers"
	"github.com/balamurugesan03/Kotbilling/middleware"
	"github.com/gin-gonic/gin"
)

func MenuRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/menu", controller.GetMenuItems())
	incomingRoutes.GET("/api/menu/:menu_item_id", controller.GetMenuItem())
	incomingRoutes.POST("/api/menu",
		middleware.RequirePermission(middleware.PermManageMenu), controller.CreateMenuItem())
	incomingRoutes.PATCH("/api/menu/:menu_item_id",
		middleware.RequirePermission(middleware.PermManageMenu), controller.UpdateMenuItem())
	incomingRoutes.PATCH("/api/menu/:menu_item_id/availability",
		middleware.RequirePermission(middleware.PermManageMenu), controller.ToggleMenuItemAvailability())
	incomingRoutes.DELETE("/api/menu/:menu_item_id",
		middleware.RequirePermission(middleware.PermManageMenu), controller.DeleteMenuItem())
}
