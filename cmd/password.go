// ABOUTME: Password recovery commands for the leishvet CLI
// ABOUTME: Requests reset emails and applies emailed reset tokens

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	forgotEmail   string
	resetToken    string
	resetPassword string
)

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Request a password reset email",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runForgotPassword(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password using an emailed reset token",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runResetPassword(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(forgotPasswordCmd)
	forgotPasswordCmd.Flags().StringVar(&forgotEmail, "email", "", "Account email")

	rootCmd.AddCommand(resetPasswordCmd)
	resetPasswordCmd.Flags().StringVar(&resetToken, "token", "", "Reset token from the email")
	resetPasswordCmd.Flags().StringVar(&resetPassword, "password", "", "New password")
}

// runForgotPassword requests the reset email and returns exit code
func runForgotPassword(ctx context.Context, w io.Writer) int {
	c, _, err := newClient()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if forgotEmail == "" {
		fmt.Fprintln(w, "Error: --email is required")
		return 2
	}

	if err := c.ForgotPassword(ctx, forgotEmail); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(w, "If an account exists for %s, a reset email is on its way.\n", forgotEmail)
	return 0
}

// runResetPassword applies the new password and returns exit code
func runResetPassword(ctx context.Context, w io.Writer) int {
	c, _, err := newClient()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if resetToken == "" {
		fmt.Fprintln(w, "Error: --token is required")
		return 2
	}
	if len(resetPassword) < minPasswordLength {
		fmt.Fprintf(w, "Error: password must be at least %d characters\n", minPasswordLength)
		return 2
	}

	if err := c.ResetPassword(ctx, resetToken, resetPassword); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(w, "Password updated. You can now log in with the new password.")
	return 0
}
