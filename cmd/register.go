// ABOUTME: Register command for the leishvet CLI
// ABOUTME: Creates a new account, validating input before any network call

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/leishvet/leishvet-cli/internal/client"
)

const minPasswordLength = 8

var (
	registerFullName    string
	registerEmail       string
	registerInstitution string
	registerPassword    string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runRegister(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerFullName, "full-name", "", "Full name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerInstitution, "institution", "", "Institution or clinic")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (prompted when omitted)")
}

// runRegister executes registration and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	c, _, err := newClient()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	reg := client.RegisterRequest{
		FullName:    registerFullName,
		Email:       registerEmail,
		Institution: registerInstitution,
		Password:    registerPassword,
	}
	if reg.FullName == "" || reg.Email == "" || reg.Password == "" {
		if err := promptRegistration(&reg); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	if err := validateRegistration(reg); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	user, err := c.Register(ctx, reg)
	if err != nil {
		fmt.Fprintf(w, "Registration failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(w, "Account created for %s. You can now log in with `leishvet login`.\n", user.Email)
	return 0
}

// validateRegistration checks required fields before any network call
func validateRegistration(reg client.RegisterRequest) error {
	if reg.FullName == "" {
		return fmt.Errorf("full name is required")
	}
	if reg.Email == "" || !strings.Contains(reg.Email, "@") {
		return fmt.Errorf("a valid email address is required")
	}
	if len(reg.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// promptRegistration asks for missing registration fields interactively
func promptRegistration(reg *client.RegisterRequest) error {
	var fields []huh.Field
	if reg.FullName == "" {
		fields = append(fields, huh.NewInput().
			Title("Full name").
			Validate(requireNonEmpty("full name")).
			Value(&reg.FullName))
	}
	if reg.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Validate(requireNonEmpty("email")).
			Value(&reg.Email))
	}
	if reg.Institution == "" {
		fields = append(fields, huh.NewInput().
			Title("Institution (optional)").
			Value(&reg.Institution))
	}
	if reg.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if len(s) < minPasswordLength {
					return fmt.Errorf("at least %d characters", minPasswordLength)
				}
				return nil
			}).
			Value(&reg.Password))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}
