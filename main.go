package main

import (
	"log"

	api "taskportal-backend/cmd/api"
	authUsecase "taskportal-backend/internal/auth/usecase"
	calendarUsecase "taskportal-backend/internal/calendar/usecase"
	"taskportal-backend/internal/notification"
	"taskportal-backend/internal/reminder"
	"taskportal-backend/internal/simulate"
	"taskportal-backend/internal/state"
	workflowUsecase "taskportal-backend/internal/workflow/usecase"
	"taskportal-backend/pkg/config"
	"taskportal-backend/pkg/database"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewSQLiteConnection(cfg)
	if err != nil {
		log.Fatal("Failed to open snapshot database:", err)
	}

	snapshotRepo, err := state.NewSnapshotRepository(db)
	if err != nil {
		log.Fatal("Failed to migrate snapshot table:", err)
	}

	// Restore the last snapshot, or seed on first run
	store := state.NewStore(state.InitialState(snapshotRepo), snapshotRepo)

	// Notification feed and toast slot
	feed := notification.NewFeed(store, cfg.ToastTimeout)

	// Simulated network round trip for create/update
	sim := simulate.New(cfg.SimFailureRate)
	sim.CreateLatency = cfg.SimCreateLatency
	sim.UpdateLatency = cfg.SimUpdateLatency

	// Usecases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(store, feed, cfg)
	taskUc := workflowUsecase.New(store, feed, sim)
	calendarUc := calendarUsecase.NewCalendarUsecase(store, feed)

	// Deadline reminder scheduler
	scheduler := reminder.NewScheduler(store, feed, cfg.ReminderInterval)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(store, feed, authUc, taskUc, calendarUc, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
