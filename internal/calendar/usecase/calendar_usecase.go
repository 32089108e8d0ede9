package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	authdomain "taskportal-backend/internal/auth/domain"
	caldomain "taskportal-backend/internal/calendar/domain"
	"taskportal-backend/internal/notification"
	notifdomain "taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/state"
	wfdomain "taskportal-backend/internal/workflow/domain"
)

// AddEventPayload carries a new calendar event. Dates are YYYY-MM-DD.
type AddEventPayload struct {
	Title           string               `json:"title"`
	Date            string               `json:"date"`
	Description     string               `json:"description"`
	Recurrence      caldomain.Recurrence `json:"recurrence"`
	RecurrenceUntil string               `json:"recurrenceUntil"`
}

// CalendarUsecase manages stored events and expands them for display.
type CalendarUsecase interface {
	AddEvent(actor authdomain.Actor, payload AddEventPayload) (*caldomain.Event, error)
	DeleteEvent(actor authdomain.Actor, eventID string) error
	Occurrences(rangeStart, rangeEnd time.Time) []caldomain.Occurrence
	Events() []caldomain.Event
}

type calendarUsecase struct {
	store *state.Store
	feed  *notification.Feed
}

// NewCalendarUsecase creates a new instance of calendarUsecase
func NewCalendarUsecase(store *state.Store, feed *notification.Feed) CalendarUsecase {
	return &calendarUsecase{store: store, feed: feed}
}

func (u *calendarUsecase) AddEvent(actor authdomain.Actor, payload AddEventPayload) (*caldomain.Event, error) {
	if actor.ID == "" {
		return nil, errors.New("Sign in to add event.")
	}

	title := strings.TrimSpace(payload.Title)
	date := strings.TrimSpace(payload.Date)
	if title == "" || date == "" {
		return nil, errors.New("Event title and date are required.")
	}

	recurrence := caldomain.NormalizeRecurrence(payload.Recurrence)
	until := strings.TrimSpace(payload.RecurrenceUntil)
	if recurrence == caldomain.RecurrenceNone {
		until = ""
	}

	event := caldomain.Event{
		ID:              wfdomain.NewID("evt"),
		Title:           title,
		Date:            date,
		Description:     strings.TrimSpace(payload.Description),
		Recurrence:      recurrence,
		RecurrenceUntil: until,
		CreatedBy:       actor.ID,
		CreatedAt:       time.Now(),
	}

	u.store.Update(func(s *state.AppState) {
		s.CalendarEvents = append(s.CalendarEvents, event)
		sort.SliceStable(s.CalendarEvents, func(i, j int) bool {
			return s.CalendarEvents[i].Date < s.CalendarEvents[j].Date
		})
	})

	u.feed.Push(fmt.Sprintf("Event %q scheduled.", event.Title), notifdomain.SeveritySuccess)
	return &event, nil
}

func (u *calendarUsecase) DeleteEvent(actor authdomain.Actor, eventID string) error {
	var (
		found     bool
		forbidden bool
		title     string
	)
	u.store.Update(func(s *state.AppState) {
		for i, event := range s.CalendarEvents {
			if event.ID != eventID {
				continue
			}
			if !actor.IsManager() && event.CreatedBy != actor.ID {
				forbidden = true
				return
			}
			title = event.Title
			s.CalendarEvents = append(s.CalendarEvents[:i], s.CalendarEvents[i+1:]...)
			found = true
			return
		}
	})
	if forbidden {
		return errors.New("Only the creator or a manager can remove this event.")
	}
	if !found {
		return errors.New("event not found")
	}

	u.feed.Push(fmt.Sprintf("Event %q removed.", title), notifdomain.SeverityInfo)
	return nil
}

func (u *calendarUsecase) Occurrences(rangeStart, rangeEnd time.Time) []caldomain.Occurrence {
	var events []caldomain.Event
	u.store.View(func(s *state.AppState) {
		events = append(events, s.CalendarEvents...)
	})
	return caldomain.Expand(events, rangeStart, rangeEnd)
}

func (u *calendarUsecase) Events() []caldomain.Event {
	var events []caldomain.Event
	u.store.View(func(s *state.AppState) {
		events = append(events, s.CalendarEvents...)
	})
	return events
}
