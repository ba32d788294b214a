// ABOUTME: Admin user-management commands for the leishvet CLI
// ABOUTME: Lists users and applies partial updates to role, state and profile

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leishvet/leishvet-cli/internal/client"
	"github.com/leishvet/leishvet-cli/internal/session"
)

var (
	updateRole        string
	updateActive      bool
	updateFullName    string
	updateInstitution string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users (admin only)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users with their roles",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runUsersList(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update a user's role, active state or profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runUsersUpdate(ctx, os.Stdout, cmd, args[0]); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersUpdateCmd)

	usersUpdateCmd.Flags().StringVar(&updateRole, "role", "", "Role name to assign")
	usersUpdateCmd.Flags().BoolVar(&updateActive, "active", true, "Whether the account is active")
	usersUpdateCmd.Flags().StringVar(&updateFullName, "full-name", "", "New full name")
	usersUpdateCmd.Flags().StringVar(&updateInstitution, "institution", "", "New institution")
}

// adminSession restores the session for an admin-gated command
func adminSession(ctx context.Context, w io.Writer) (*client.Client, *session.Manager, int) {
	c, cfg, err := newClient()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil, nil, 2
	}

	sess := session.NewManager(newStore(cfg), c)
	sess.Restore(ctx)
	if !sess.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run `leishvet login` first.")
		return nil, nil, 1
	}
	return c, sess, 0
}

// runUsersList fetches users and roles concurrently and prints a table
func runUsersList(ctx context.Context, w io.Writer) int {
	c, sess, code := adminSession(ctx, w)
	if code != 0 {
		return code
	}
	token := sess.Token()

	var users []client.User
	var roles []client.Role
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = c.Users(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		roles, err = c.Roles(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			fmt.Fprintln(w, "Error: admin access required")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		output := map[string]any{"users": users, "roles": roles}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tACTIVE")
	for _, u := range users {
		role := "-"
		if u.Role != nil {
			role = u.Role.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.FullName, role, u.IsActive)
	}
	tw.Flush()
	return 0
}

// runUsersUpdate applies the changed flags as a partial update
func runUsersUpdate(ctx context.Context, w io.Writer, cmd *cobra.Command, idArg string) int {
	c, sess, code := adminSession(ctx, w)
	if code != 0 {
		return code
	}
	token := sess.Token()

	userID, err := uuid.Parse(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid user id %q\n", idArg)
		return 2
	}

	var update client.UserUpdate
	if cmd.Flags().Changed("role") {
		roleID, err := resolveRoleID(ctx, c, token, updateRole)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		update.RoleID = &roleID
	}
	if cmd.Flags().Changed("active") {
		active := updateActive
		update.IsActive = &active
	}
	if cmd.Flags().Changed("full-name") {
		name := updateFullName
		update.FullName = &name
	}
	if cmd.Flags().Changed("institution") {
		institution := updateInstitution
		update.Institution = &institution
	}
	if update == (client.UserUpdate{}) {
		fmt.Fprintln(w, "Error: nothing to update, pass at least one of --role, --active, --full-name, --institution")
		return 2
	}

	user, err := c.UpdateUser(ctx, token, userID, update)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			fmt.Fprintln(w, "Error: admin access required")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	role := "-"
	if user.Role != nil {
		role = user.Role.Name
	}
	fmt.Fprintf(w, "Updated %s: role=%s active=%t\n", user.Email, role, user.IsActive)
	return 0
}

// resolveRoleID maps a role name to its ID via the roles endpoint
func resolveRoleID(ctx context.Context, c *client.Client, token, name string) (uuid.UUID, error) {
	roles, err := c.Roles(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	known := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.Name == name {
			return r.ID, nil
		}
		known = append(known, r.Name)
	}
	return uuid.Nil, fmt.Errorf("unknown role %q (known roles: %s)", name, strings.Join(known, ", "))
}
