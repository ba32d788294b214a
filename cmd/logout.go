// ABOUTME: Logout command for the leishvet CLI
// ABOUTME: Clears the stored token from both storage tiers

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leishvet/leishvet-cli/internal/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runLogout(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session and returns exit code
func runLogout(w io.Writer) int {
	_, cfg, err := newClient()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	store := newStore(cfg)
	sess := session.NewManager(store, nil)
	if err := sess.Logout(); err != nil {
		fmt.Fprintf(w, "Error: failed to clear stored token: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, "Logged out.")
	return 0
}
