package api

import (
	authUsecase "taskportal-backend/internal/auth/usecase"
	calendarUsecase "taskportal-backend/internal/calendar/usecase"
	"taskportal-backend/internal/notification"
	"taskportal-backend/internal/state"
	workflowUsecase "taskportal-backend/internal/workflow/usecase"
	"taskportal-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store           *state.Store
	feed            *notification.Feed
	authUsecase     authUsecase.AuthUsecase
	taskUsecase     workflowUsecase.Usecase
	calendarUsecase calendarUsecase.CalendarUsecase
	config          *config.Config
}

func NewHandler(
	store *state.Store,
	feed *notification.Feed,
	authUc authUsecase.AuthUsecase,
	taskUc workflowUsecase.Usecase,
	calendarUc calendarUsecase.CalendarUsecase,
	cfg *config.Config,
) *Handler {
	return &Handler{
		store:           store,
		feed:            feed,
		authUsecase:     authUc,
		taskUsecase:     taskUc,
		calendarUsecase: calendarUc,
		config:          cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(h.config.GinMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}
