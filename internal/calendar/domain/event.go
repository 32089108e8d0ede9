package domain

import "time"

// Recurrence is how often a calendar event repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// NormalizeRecurrence maps unknown values to RecurrenceNone.
func NormalizeRecurrence(r Recurrence) Recurrence {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return r
	default:
		return RecurrenceNone
	}
}

// Event is a stored calendar event definition. Dates are YYYY-MM-DD.
type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Date            string     `json:"date"`
	Description     string     `json:"description"`
	Recurrence      Recurrence `json:"recurrence"`
	RecurrenceUntil string     `json:"recurrenceUntil"`
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	AutoGenerated   bool       `json:"autoGenerated"`
}

// Occurrence is an event instance pinned to one concrete date. Occurrences
// are computed by Expand and never stored.
type Occurrence struct {
	Event
	SourceEventID string `json:"sourceEventId"`
	Occurrence    bool   `json:"occurrence,omitempty"`
}

const dateKeyLayout = "2006-01-02"

// maxExpansionSteps bounds the cursor walk per event so a malformed
// recurrence-end date cannot loop forever.
const maxExpansionSteps = 500

func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(dateKeyLayout, value)
	return t, err == nil
}

// DateKey formats t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

func step(cursor time.Time, r Recurrence) time.Time {
	switch r {
	case RecurrenceDaily:
		return cursor.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return cursor.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return cursor.AddDate(0, 1, 0)
	default:
		return cursor
	}
}

// Expand materializes the given events into dated occurrences within
// [rangeStart, rangeEnd]. Non-recurring events are emitted unconditionally
// at their own date; recurring events are stepped from their base date up
// to the earlier of rangeEnd and their recurrence-end date. Pure and
// deterministic for identical inputs.
func Expand(events []Event, rangeStart, rangeEnd time.Time) []Occurrence {
	expanded := []Occurrence{}
	for _, event := range events {
		base, ok := parseDate(event.Date)
		if !ok {
			continue
		}

		if NormalizeRecurrence(event.Recurrence) == RecurrenceNone {
			expanded = append(expanded, Occurrence{
				Event:         event,
				SourceEventID: event.ID,
			})
			continue
		}

		endLimit := rangeEnd
		if until, ok := parseDate(event.RecurrenceUntil); ok && until.Before(endLimit) {
			endLimit = until
		}

		cursor := base
		for guard := 0; guard < maxExpansionSteps && !cursor.After(rangeEnd) && !cursor.After(endLimit); guard++ {
			if !cursor.Before(rangeStart) {
				occ := Occurrence{
					Event:         event,
					SourceEventID: event.ID,
					Occurrence:    true,
				}
				occ.ID = event.ID + "-" + DateKey(cursor)
				occ.Date = DateKey(cursor)
				expanded = append(expanded, occ)
			}
			cursor = step(cursor, event.Recurrence)
		}
	}
	return expanded
}
