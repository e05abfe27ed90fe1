package user

import (
	"github.com/DhavalSuthar-24/profiles/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUserRoutes(router *gin.RouterGroup, svc UserService, jwtSecret string) {
	ctrl := NewUserController(svc)

	public := router.Group("/users")
	{
		public.GET("", ctrl.ListUsers)
		public.GET("/:user_id", ctrl.GetUser)
	}

	protected := router.Group("/users")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		protected.POST("", ctrl.CreateUser)
		protected.DELETE("/:user_id", ctrl.DeleteUser)
		protected.POST("/:user_id/interests", ctrl.AttachInterests)
		protected.POST("/:user_id/skills", ctrl.AttachSkills)
	}
}
