// ABOUTME: Predict command for the leishvet CLI
// ABOUTME: Collects a clinical observation form and submits it for diagnosis

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leishvet/leishvet-cli/internal/form"
	"github.com/leishvet/leishvet-cli/internal/session"
	"github.com/leishvet/leishvet-cli/internal/tui/predictform"
)

var predictInput string

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit a clinical observation form for diagnosis",
	Long: `Submit a clinical observation form and show the predicted diagnosis.

Without flags an interactive form opens. With --input the observations are
read from a JSON file mapping field names to option values, for example:

  {"animalSex": "M", "generalState": "Bom"}

Fields left out of the file are submitted as "not recorded".`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runPredict(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringVar(&predictInput, "input", "", "JSON file of field values (non-interactive)")
}

// runPredict executes the prediction flow and returns exit code
func runPredict(ctx context.Context, w io.Writer) int {
	c, cfg, err := newClient()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	schema := form.Default()

	sess := session.NewManager(newStore(cfg), c)
	sess.Restore(ctx)
	if !sess.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run `leishvet login` first.")
		return 1
	}

	loader := form.NewBreedLoader(c)
	submitter := form.NewSubmitter(c)

	if predictInput != "" {
		return runPredictFromFile(ctx, w, schema, loader, submitter, sess.Token())
	}
	return runPredictInteractive(ctx, w, schema, loader, submitter, sess.Token())
}

// runPredictFromFile submits observations read from a JSON file
func runPredictFromFile(ctx context.Context, w io.Writer, schema *form.Schema, loader *form.BreedLoader, submitter *form.Submitter, token string) int {
	data, err := os.ReadFile(predictInput)
	if err != nil {
		fmt.Fprintf(w, "Error: cannot read %s: %v\n", predictInput, err)
		return 2
	}

	var fileValues map[string]string
	if err := json.Unmarshal(data, &fileValues); err != nil {
		fmt.Fprintf(w, "Error: invalid JSON in %s: %v\n", predictInput, err)
		return 2
	}

	values := schema.NewValues()
	for name, value := range fileValues {
		values.Set(name, value)
	}

	// Reference data must be resolved before submission is allowed
	breeds := loader.Load(ctx, token)
	if breeds.Degraded {
		fmt.Fprintln(os.Stderr, "warning: breed list failed to load; only the fallback breed is accepted")
	}
	submitter.MarkReferenceReady()

	if err := schema.ValidateValues(values, breeds.Names); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	result, err := submitter.Submit(ctx, token, schema.BuildPayload(values))
	if err != nil {
		fmt.Fprintf(w, "Prediction failed: %v\n", err)
		return 1
	}

	printResult(w, result)
	return 0
}

// runPredictInteractive runs the TUI form flow
func runPredictInteractive(ctx context.Context, w io.Writer, schema *form.Schema, loader *form.BreedLoader, submitter *form.Submitter, token string) int {
	model := predictform.New(ctx, schema, loader, submitter, token)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return 2
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	m, ok := finalModel.(*predictform.Model)
	if !ok {
		return 2
	}
	result, errMsg := m.Result()
	if errMsg != "" {
		fmt.Fprintf(w, "Prediction failed: %s\n", errMsg)
		return 1
	}
	if result == nil {
		// Cancelled before submitting
		return 0
	}

	printResult(w, result)
	return 0
}

// printResult writes the diagnosis in the requested output format
func printResult(w io.Writer, result *form.Result) {
	if IsJSONOutput() {
		output := map[string]any{
			"diagnosis":          result.Diagnosis,
			"confidence":         result.Confidence,
			"confidence_percent": result.ConfidencePercent(),
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintf(w, "Diagnosis:  %s\nConfidence: %s\n", result.Diagnosis, result.ConfidencePercent())
}
