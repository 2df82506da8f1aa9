package routes

import (
	controller "github.com/balamurugesan03/Kotbilling/controllers"
	"github.com/balamurugesan03/Kotbilling/middleware"
	"github.com/gin-gonic/gin"
)

// AuthRoutes are the only staff endpoints outside the token wall.
func AuthRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/users/signup", controller.SignUp())
	incomingRoutes.POST("/users/login", controller.Login())
}

func UserRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/users",
		middleware.RequirePermission(middleware.PermManageUsers), controller.GetUsers())
	incomingRoutes.GET("/api/users/:user_id", controller.GetUser())
}
