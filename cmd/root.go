package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-attendance",
	Short: "Backend for a face-recognition attendance tracker",
	Long: `Face Attendance is the REST backend for a browser-based attendance
tracker. Face matching runs client-side against a pre-trained model; this
server persists students, subjects and per-subject attendance sheets as
plain CSV files and serves them over HTTP.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
