package api

import (
	"github.com/gin-gonic/gin"
	"github.com/stable-club/horse-care-backend/internal/admin"
	"github.com/stable-club/horse-care-backend/internal/horse"
	"github.com/stable-club/horse-care-backend/internal/request"
	"github.com/stable-club/horse-care-backend/internal/user"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 认证相关的路由，无需会话
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", user.RegisterHandler)
			authRoutes.POST("/login", user.LoginHandler)
			authRoutes.POST("/logout", user.LogoutHandler)
		}

		// 需要登录会话的路由
		authed := api.Group("")
		authed.Use(user.RequireSession())
		{
			authed.GET("/me", user.ProfileHandler)
			authed.GET("/me/authority", admin.AuthorityHandler)

			// 马匹相关的路由组 /api/horses
			horseRoutes := authed.Group("/horses")
			{
				horseRoutes.GET("", horse.ListHorsesHandler)
				horseRoutes.GET("/:id", horse.GetHorseHandler)
				horseRoutes.POST("/:id/feed", horse.CareHandler(horse.CareFeed))
				horseRoutes.POST("/:id/water", horse.CareHandler(horse.CareWater))
				horseRoutes.POST("/:id/flower", horse.CareHandler(horse.CareFlower))
			}

			// 申请相关的路由组 /api/requests
			requestRoutes := authed.Group("/requests")
			{
				requestRoutes.POST("/attach", request.CreateAttachHandler)
				requestRoutes.POST("/delete", request.CreateDeleteHandler)
				requestRoutes.GET("/mine", request.MyRequestsHandler)
			}

			// 管理端路由组 /api/admin，需要管理员权限
			adminRoutes := authed.Group("/admin")
			adminRoutes.Use(admin.RequireAdmin())
			{
				adminRoutes.GET("/dashboard", admin.DashboardHandler)

				adminRoutes.GET("/requests/attach", request.PendingAttachHandler)
				adminRoutes.POST("/requests/attach/:id/approve", request.ApproveAttachHandler)
				adminRoutes.POST("/requests/attach/:id/reject", request.RejectAttachHandler)

				adminRoutes.GET("/requests/delete", request.PendingDeleteHandler)
				adminRoutes.POST("/requests/delete/:id/approve", request.ApproveDeleteHandler)
				adminRoutes.POST("/requests/delete/:id/reject", request.RejectDeleteHandler)

				// 管理员名册的增删只开放给主管理员
				rosterRoutes := adminRoutes.Group("/admins")
				{
					rosterRoutes.GET("", admin.ListAdminsHandler)
					rosterRoutes.POST("", admin.RequireMainAdmin(), admin.AddAdminHandler)
					rosterRoutes.DELETE("/:telegram_id", admin.RequireMainAdmin(), admin.RemoveAdminHandler)
				}
			}
		}
	}
}
