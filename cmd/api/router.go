package api

import (
	"net/http"

	authDelivery "taskportal-backend/internal/auth/delivery"
	calendarDelivery "taskportal-backend/internal/calendar/delivery"
	notificationDelivery "taskportal-backend/internal/notification/delivery"
	workflowDelivery "taskportal-backend/internal/workflow/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := authDelivery.NewAuthHandler(h.authUsecase)
	taskHandler := workflowDelivery.NewTaskHandler(h.taskUsecase)
	calendarHandler := calendarDelivery.NewCalendarHandler(h.calendarUsecase)
	notificationHandler := notificationDelivery.NewNotificationHandler(h.feed, h.store)

	authRequired := authDelivery.AuthMiddleware(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		// User administration (protected)
		users := api.Group("/users")
		users.Use(authRequired)
		{
			users.POST("", authHandler.AddEmployee)
			users.PUT("/:id/profile", authHandler.UpdateProfile)
		}

		api.POST("/theme/toggle", authRequired, authHandler.ToggleTheme)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(authRequired)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PUT("/:id/status", taskHandler.SetStatus)
			tasks.POST("/:id/reopen", taskHandler.Reopen)
			tasks.POST("/:id/comments", taskHandler.AddComment)
			tasks.POST("/:id/subtasks", taskHandler.AddSubtask)
			tasks.PUT("/:id/subtasks/:subtaskId", taskHandler.ToggleSubtask)
			tasks.GET("/:id/blocker", taskHandler.CompletionBlocker)
		}

		api.POST("/undo", authRequired, taskHandler.Undo)

		// Calendar routes (protected)
		events := api.Group("/events")
		events.Use(authRequired)
		{
			events.GET("", calendarHandler.ListEvents)
			events.GET("/occurrences", calendarHandler.ListOccurrences)
			events.POST("", calendarHandler.AddEvent)
			events.DELETE("/:id", calendarHandler.DeleteEvent)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(authRequired)
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Remove)
		}

		api.GET("/toast", authRequired, notificationHandler.Toast)
		api.DELETE("/toast", authRequired, notificationHandler.DismissToast)

		// Backup routes (protected)
		backup := api.Group("/backup")
		backup.Use(authRequired)
		{
			backup.GET("/export", h.ExportBackup)
			backup.POST("/import", h.ImportBackup)
		}
	}
}
