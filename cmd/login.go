// ABOUTME: Login command for the leishvet CLI
// ABOUTME: Exchanges credentials for a bearer token and stores the session

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/leishvet/leishvet-cli/internal/client"
	"github.com/leishvet/leishvet-cli/internal/session"
)

var (
	loginEmail    string
	loginPassword string
	loginRemember bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the diagnosis service",
	Long: `Log in with your email and password.

With --remember the token is stored persistently and survives restarts;
without it the token lives in the session-scoped runtime directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginRemember, "remember", false, "Keep the session across restarts")
}

// runLogin executes the login flow and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	c, cfg, err := newClient()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	email, password := loginEmail, loginPassword
	if email == "" || password == "" {
		if err := promptCredentials(&email, &password); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}
	if email == "" || password == "" {
		fmt.Fprintln(w, "Error: email and password are required")
		return 2
	}

	token, err := c.Login(ctx, email, password)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			fmt.Fprintf(w, "Login failed: %v\n", apiErr)
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	sess := session.NewManager(newStore(cfg), c)
	if err := sess.Login(ctx, token.AccessToken, loginRemember); err != nil {
		fmt.Fprintf(w, "Error: failed to store token: %v\n", err)
		return 2
	}

	// The identity fetch is fire-and-forget; wait here only to greet the user
	_ = sess.WaitIdentity(ctx)

	tier := "this session only"
	if loginRemember {
		tier = "persistent"
	}
	if user := sess.CurrentUser(); user != nil {
		fmt.Fprintf(w, "Logged in as %s (%s)\n", user.FullName, tier)
	} else {
		fmt.Fprintf(w, "Logged in as %s (%s)\n", email, tier)
	}
	return 0
}

// promptCredentials asks for missing credentials interactively
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Validate(requireNonEmpty("email")).
			Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(requireNonEmpty("password")).
			Value(password))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

// requireNonEmpty validates that an interactive input was filled in
func requireNonEmpty(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
