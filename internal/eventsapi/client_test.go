package eventsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/events", r.URL.Path)
		assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"ev-1","title":"GopherCon","status":"published"}]`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)

	events, err := client.Events(context.Background(), "token123")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
	assert.Equal(t, "GopherCon", events[0].Title)
}

func TestClientSubmissionsEventFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ev-1", r.URL.Query().Get("event"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)

	subs, err := client.Submissions(context.Background(), "token123", "ev-1")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestClientUnauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		client := New(srv.URL, time.Second)

		_, err := client.Attendees(context.Background(), "stale", "")
		assert.ErrorIs(t, err, ErrUnauthorized)

		srv.Close()
	}
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)

	_, err := client.Sponsorships(context.Background(), "token123", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}
