package model

import (
	"slices"
	"strings"
	"time"
)

// EventDateLayout is the layout of Event.Date.
const EventDateLayout = "2006-01-02"

// Event is a scheduled workshop, seminar or webinar.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // free text, e.g. "14:00 - 16:00"
	Location    string `json:"location"`
	Description string `json:"description"`
}

// NewEventParams holds parameters for creating a new Event.
type NewEventParams struct {
	Title       string
	Date        string
	Time        string
	Location    string
	Description string
}

// NewEvent creates an Event with a generated UUID.
func NewEvent(params NewEventParams) Event {
	return Event{
		ID:          GenerateUUID(),
		Title:       params.Title,
		Date:        params.Date,
		Time:        params.Time,
		Location:    params.Location,
		Description: params.Description,
	}
}

// Validate requires a title and a parseable date.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if _, err := time.Parse(EventDateLayout, e.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	return nil
}

// SortEvents orders events by date ascending, keeping insertion order for equal dates.
func SortEvents(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return strings.Compare(a.Date, b.Date)
	})
	return sorted
}

// UpcomingEvents returns events dated on or after today, in date order.
func UpcomingEvents(events []Event, now time.Time) []Event {
	today := now.Format(EventDateLayout)
	var result []Event
	for _, e := range SortEvents(events) {
		if e.Date >= today {
			result = append(result, e)
		}
	}
	return result
}
