package eventsapi

import "time"

// Event is a conference or meetup managed through the console.
type Event struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	Status        string    `json:"status"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	AttendeeCount int       `json:"attendee_count"`
	CFPOpen       bool      `json:"cfp_open"`
}

// Submission is a call-for-papers entry.
type Submission struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Speaker     string    `json:"speaker"`
	Track       string    `json:"track"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Attendee is a registered participant of an event.
type Attendee struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TicketType string `json:"ticket_type"`
	CheckedIn  bool   `json:"checked_in"`
}

// Sponsorship is a sponsor engagement for an event.
type Sponsorship struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Sponsor string `json:"sponsor"`
	Tier    string `json:"tier"`
	Amount  int    `json:"amount"`
	Status  string `json:"status"`
}
