// ABOUTME: Root command for the leishvet CLI
// ABOUTME: Handles global flags and shared client/session wiring

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leishvet/leishvet-cli/internal/client"
	"github.com/leishvet/leishvet-cli/internal/config"
	"github.com/leishvet/leishvet-cli/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "leishvet",
	Short: "CLI for the LeishVet canine leishmaniasis diagnosis service",
	Long: `leishvet is a command-line client for the LeishVet diagnosis service.

It manages your login session, collects clinical observation forms and
submits them for diagnosis prediction.

Environment Variables:
  LEISHVET_API_URL  Backend API URL (default: http://localhost:8000)
  LEISHVET_TIMEOUT  Request timeout in seconds (default: 30)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides LEISHVET_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newClient loads configuration and builds the API client.
// The --api-url flag wins over the environment.
func newClient() (*client.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	c := client.New(cfg.APIURL, time.Duration(cfg.RequestTimeout)*time.Second)
	return c, cfg, nil
}

// newStore builds the token store from configured or default tier dirs
func newStore(cfg *config.Config) *session.Store {
	persistentDir := cfg.ConfigDir
	if persistentDir == "" {
		persistentDir = session.DefaultConfigDir()
	}
	runtimeDir := cfg.RuntimeDir
	if runtimeDir == "" {
		runtimeDir = session.DefaultRuntimeDir()
	}
	return session.NewStore(persistentDir, runtimeDir)
}
