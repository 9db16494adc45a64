package main

import (
	"os"

	"github.com/eventdeck/eventdeck/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
