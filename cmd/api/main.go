package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/daytrack/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "daytrack",
		Short: "DayTrack API Server",
		Long:  `DayTrack is a personal productivity server: a sectioned task board, a plain scratchpad and per-section rich notes with debounced autosave.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
