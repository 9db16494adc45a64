package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdeck/eventdeck/internal/storage/memory"
)

func TestNotifyAndPop(t *testing.T) {
	flash := NewFlash(memory.New(), time.Minute)

	flash.For("s1").Notify(Notification{
		Title:    "Setting saved",
		Severity: SeveritySuccess,
	})

	got := flash.Pop("s1")
	require.Len(t, got, 1)
	assert.Equal(t, "Setting saved", got[0].Title)
	assert.Equal(t, SeveritySuccess, got[0].Severity)
	assert.NotEmpty(t, got[0].ID)

	// Pop clears the queue.
	assert.Empty(t, flash.Pop("s1"))
}

func TestNotificationsQueueInOrder(t *testing.T) {
	flash := NewFlash(memory.New(), time.Minute)
	n := flash.For("s1")

	n.Notify(Notification{Title: "first"})
	n.Notify(Notification{Title: "second"})

	got := flash.Pop("s1")
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "second", got[1].Title)
}

func TestSessionsAreIsolated(t *testing.T) {
	flash := NewFlash(memory.New(), time.Minute)

	flash.For("s1").Notify(Notification{Title: "mine"})

	assert.Empty(t, flash.Pop("s2"))
	assert.Len(t, flash.Pop("s1"), 1)
}
