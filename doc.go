// Package main provides the entry point for the EventDeck console.
// It initializes and runs a web server using the Fiber framework that lets
// organizers browse events, review call-for-papers submissions, track
// attendees and manage sponsorships. Sign-in is handled per browser session
// with local accounts or an OpenID Connect provider, and console settings
// are persisted with gorm.
package main
