// ABOUTME: Whoami command for the leishvet CLI
// ABOUTME: Restores the stored session and shows the resolved identity

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leishvet/leishvet-cli/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session and user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runWhoami(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami restores the session and prints identity details
func runWhoami(ctx context.Context, w io.Writer) int {
	c, cfg, err := newClient()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	sess := session.NewManager(newStore(cfg), c)
	sess.Restore(ctx)

	if !sess.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in.")
		return 1
	}

	_ = sess.WaitIdentity(ctx)
	user := sess.CurrentUser()
	info, hasInfo := session.InspectToken(sess.Token())

	if IsJSONOutput() {
		output := map[string]any{
			"authenticated": true,
			"user":          user,
		}
		if hasInfo && !info.Expiry.IsZero() {
			output["token_expires_at"] = info.Expiry.Format(time.RFC3339)
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if user == nil {
		// Identity fetch failed; the session stays usable with what the
		// token itself can tell us
		fmt.Fprintln(w, "Logged in, but the identity could not be resolved.")
		if hasInfo && info.Subject != "" {
			fmt.Fprintf(w, "Token subject: %s\n", info.Subject)
		}
	} else {
		fmt.Fprintf(w, "Email:       %s\n", user.Email)
		fmt.Fprintf(w, "Name:        %s\n", user.FullName)
		if user.Institution != "" {
			fmt.Fprintf(w, "Institution: %s\n", user.Institution)
		}
		if user.Role != nil {
			fmt.Fprintf(w, "Role:        %s\n", user.Role.Name)
		}
	}

	if hasInfo && !info.Expiry.IsZero() {
		if info.Expired() {
			fmt.Fprintf(w, "Token:       expired %s\n", info.Expiry.Format(time.RFC3339))
		} else {
			fmt.Fprintf(w, "Token:       valid until %s\n", info.Expiry.Format(time.RFC3339))
		}
	}
	return 0
}
