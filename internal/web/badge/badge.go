// Package badge maps domain status values to the labels and colors the
// templates render them with.
package badge

// Badge is a status rendered as a colored label.
type Badge struct {
	Label string
	Color string
}

var eventBadges = map[string]Badge{
	"draft":     {Label: "Draft", Color: "gray"},
	"published": {Label: "Published", Color: "green"},
	"archived":  {Label: "Archived", Color: "yellow"},
	"cancelled": {Label: "Cancelled", Color: "red"},
}

var submissionBadges = map[string]Badge{
	"submitted": {Label: "Submitted", Color: "blue"},
	"accepted":  {Label: "Accepted", Color: "green"},
	"rejected":  {Label: "Rejected", Color: "red"},
	"withdrawn": {Label: "Withdrawn", Color: "gray"},
}

var sponsorshipBadges = map[string]Badge{
	"prospect":  {Label: "Prospect", Color: "gray"},
	"committed": {Label: "Committed", Color: "blue"},
	"paid":      {Label: "Paid", Color: "green"},
	"declined":  {Label: "Declined", Color: "red"},
}

var unknown = Badge{Label: "Unknown", Color: "gray"}

// ForEvent returns the badge for an event status.
func ForEvent(status string) Badge {
	return lookup(eventBadges, status)
}

// ForSubmission returns the badge for a CFP submission status.
func ForSubmission(status string) Badge {
	return lookup(submissionBadges, status)
}

// ForSponsorship returns the badge for a sponsorship status.
func ForSponsorship(status string) Badge {
	return lookup(sponsorshipBadges, status)
}

// ForCheckIn returns the badge for an attendee's check-in state.
func ForCheckIn(checkedIn bool) Badge {
	if checkedIn {
		return Badge{Label: "Checked in", Color: "green"}
	}

	return Badge{Label: "Registered", Color: "gray"}
}

func lookup(m map[string]Badge, status string) Badge {
	if b, ok := m[status]; ok {
		return b
	}

	return unknown
}
