// ABOUTME: Breeds command for the leishvet CLI
// ABOUTME: Lists the breed reference data used by the prediction form

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leishvet/leishvet-cli/internal/form"
	"github.com/leishvet/leishvet-cli/internal/session"
)

var breedsCmd = &cobra.Command{
	Use:   "breeds",
	Short: "List the known dog breeds",
	Long:  `List the breed reference data offered by the prediction form's breed field.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runBreeds(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(breedsCmd)
}

// runBreeds lists the breed reference data and returns exit code
func runBreeds(ctx context.Context, w io.Writer) int {
	c, cfg, err := newClient()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	sess := session.NewManager(newStore(cfg), c)
	sess.Restore(ctx)
	if !sess.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run `leishvet login` first.")
		return 1
	}

	list := form.NewBreedLoader(c).Load(ctx, sess.Token())

	if IsJSONOutput() {
		output := map[string]any{
			"breeds":   list.Names,
			"degraded": list.Degraded,
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		for _, name := range list.Names {
			fmt.Fprintln(w, name)
		}
	}

	if list.Degraded {
		fmt.Fprintln(os.Stderr, "warning: breed list failed to load; showing the fallback value only")
		return 2
	}
	return 0
}
