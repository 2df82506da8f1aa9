package routes

import (
	controller "github.com/balamurugesan03/Kotbilling/controllers"
	"github.com/balamurugesan03/Kotbilling/middleware"
	"github.com/gin-gonic/gin"
)

func DashboardRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/dashboard/stats",
		middleware.RequirePermission(middleware.PermViewDashboard, middleware.PermViewReports), controller.GetDashboardStats())
	incomingRoutes.GET("/api/dashboard/running",
		middleware.RequirePermission(middleware.PermViewDashboard), controller.GetRunningOrders())
	incomingRoutes.GET("/api/dashboard/sales",
		middleware.RequirePermission(middleware.PermViewReports), controller.GetDailySales())
}
