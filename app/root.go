// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eventdeck",
	Short: "EventDeck is a web-based management console for events",
	Long: `EventDeck is a web-based management console for conferences and
meetups that provides an easy-to-use interface for reviewing events,
call-for-papers submissions, attendees and sponsorships.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
