package main

import (
	"log"
	"os"

	"github.com/ntdcarbon/ntdcarbon/pkg/pipeline/cli"
)

// Main entry point for `ntdcarbon` app.
func main() {
	// Create a new app
	app, err := cli.NewNTDCarbonApp()
	if err != nil {
		panic("Failed to create an instance of ntdcarbon app")
	}

	// Main entrypoint of the app
	if err := app.Main(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
