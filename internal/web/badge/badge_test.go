package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEvent(t *testing.T) {
	assert.Equal(t, Badge{Label: "Published", Color: "green"}, ForEvent("published"))
	assert.Equal(t, Badge{Label: "Cancelled", Color: "red"}, ForEvent("cancelled"))
	assert.Equal(t, unknown, ForEvent("nonsense"))
}

func TestForSubmission(t *testing.T) {
	assert.Equal(t, Badge{Label: "Accepted", Color: "green"}, ForSubmission("accepted"))
	assert.Equal(t, unknown, ForSubmission(""))
}

func TestForSponsorship(t *testing.T) {
	assert.Equal(t, Badge{Label: "Paid", Color: "green"}, ForSponsorship("paid"))
	assert.Equal(t, Badge{Label: "Prospect", Color: "gray"}, ForSponsorship("prospect"))
}

func TestForCheckIn(t *testing.T) {
	assert.Equal(t, "Checked in", ForCheckIn(true).Label)
	assert.Equal(t, "Registered", ForCheckIn(false).Label)
}
