// ABOUTME: Interactive clinical observation form as a bubbletea model
// ABOUTME: Uses huh selects driven by the form schema, with async breed loading

package predictform

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/leishvet/leishvet-cli/internal/form"
	"github.com/leishvet/leishvet-cli/internal/tui/styles"
)

// fieldsPerPage controls how many selects share one huh group
const fieldsPerPage = 4

// notRecorded is the label for the empty (unset) option of every select
const notRecorded = "(not recorded)"

// phase is the screen state of the prediction flow
type phase int

const (
	phaseObservations phase = iota // fixed-field selects, breed load in background
	phaseWaitBreeds                // observations done, breed list still loading
	phaseBreed                     // breed select
	phaseSubmitting                // prediction call in flight
	phaseDone                      // result or error shown
)

// breedsLoadedMsg is sent when the breed loader resolves
type breedsLoadedMsg struct {
	list form.BreedList
}

// submitDoneMsg is sent when the prediction call completes
type submitDoneMsg struct {
	result *form.Result
	err    error
}

// fieldLabels maps API keys to display titles
var fieldLabels = map[string]string{
	"general_state":             "General state",
	"ectoparasites":             "Ectoparasites",
	"nutritional_state":         "Nutritional state",
	"coat":                      "Coat",
	"nails":                     "Nails",
	"mucosa_color":              "Mucosa color",
	"muzzle_ear_lesion":         "Muzzle/ear lesion",
	"lymph_nodes":               "Lymph nodes",
	"blepharitis":               "Blepharitis",
	"conjunctivitis":            "Conjunctivitis",
	"alopecia":                  "Alopecia",
	"bleeding":                  "Bleeding",
	"skin_lesion":               "Skin lesion",
	"muzzle_lip_depigmentation": "Muzzle/lip depigmentation",
	"animal_sex":                "Animal sex",
	"breed_name":                "Breed",
}

// Model is the prediction form flow
type Model struct {
	ctx       context.Context
	schema    *form.Schema
	loader    *form.BreedLoader
	submitter *form.Submitter
	token     string

	phase      phase
	obsForm    *huh.Form
	breedForm  *huh.Form
	spin       spinner.Model
	width      int
	valuePtrs  map[string]*string
	breedValue string
	breeds     form.BreedList
	breedsDone bool

	result    *form.Result
	errMsg    string
	breedNote string // degraded-load notice, dismissible but non-fatal
	quitting  bool
}

// New creates the prediction form model. The breed fetch starts on Init and
// runs while the clinician fills in the fixed fields.
func New(ctx context.Context, schema *form.Schema, loader *form.BreedLoader, submitter *form.Submitter, token string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	m := &Model{
		ctx:       ctx,
		schema:    schema,
		loader:    loader,
		submitter: submitter,
		token:     token,
		spin:      sp,
		valuePtrs: make(map[string]*string),
	}
	m.obsForm = m.buildObservationsForm()
	return m
}

// buildObservationsForm builds paginated selects for every fixed-group field
func (m *Model) buildObservationsForm() *huh.Form {
	var groups []*huh.Group
	var pending []huh.Field

	flush := func() {
		if len(pending) > 0 {
			groups = append(groups, huh.NewGroup(pending...).
				Title("Clinical observations").
				Description("Leave a field as (not recorded) when it was not assessed"))
			pending = nil
		}
	}

	for _, f := range m.schema.Fields() {
		group, ok := m.schema.Group(f.Group)
		if !ok || group.Kind != form.GroupFixed {
			continue // the dynamic breed field gets its own form
		}

		value := new(string)
		m.valuePtrs[f.Name] = value

		options := []huh.Option[string]{huh.NewOption(notRecorded, "")}
		for _, v := range group.Values {
			options = append(options, huh.NewOption(v, v))
		}

		pending = append(pending, huh.NewSelect[string]().
			Title(fieldLabels[f.APIKey]).
			Options(options...).
			Value(value))

		if len(pending) == fieldsPerPage {
			flush()
		}
	}
	flush()

	return huh.NewForm(groups...).WithTheme(createTheme())
}

// buildBreedForm builds the breed select from the resolved reference list
func (m *Model) buildBreedForm() *huh.Form {
	if m.breedValue == "" {
		m.breedValue = m.breeds.DefaultSelection()
	}

	options := []huh.Option[string]{huh.NewOption(notRecorded, "")}
	for _, name := range m.breeds.Names {
		options = append(options, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fieldLabels["breed_name"]).
				Description("Press Enter to submit the assessment").
				Options(options...).
				Value(&m.breedValue),
		).Title("Breed"),
	).WithTheme(createTheme())
}

// loadBreedsCmd runs the breed loader off the UI goroutine
func (m *Model) loadBreedsCmd() tea.Cmd {
	return func() tea.Msg {
		return breedsLoadedMsg{list: m.loader.Load(m.ctx, m.token)}
	}
}

// submitCmd builds the payload and issues the prediction call
func (m *Model) submitCmd() tea.Cmd {
	values := m.schema.NewValues()
	for name, ptr := range m.valuePtrs {
		values.Set(name, *ptr)
	}
	values.Set("breedName", m.breedValue)
	payload := m.schema.BuildPayload(values)

	return func() tea.Msg {
		result, err := m.submitter.Submit(m.ctx, m.token, payload)
		return submitDoneMsg{result: result, err: err}
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.obsForm.Init(), m.spin.Tick, m.loadBreedsCmd())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case breedsLoadedMsg:
		m.breeds = msg.list
		m.breedsDone = true
		m.submitter.MarkReferenceReady()
		if msg.list.Degraded {
			m.breedNote = "breed list failed to load, only the fallback breed is available"
		}
		if m.phase == phaseWaitBreeds {
			m.phase = phaseBreed
			m.breedForm = m.buildBreedForm()
			return m, m.breedForm.Init()
		}
		return m, nil

	case submitDoneMsg:
		m.phase = phaseDone
		if msg.err != nil {
			m.result = nil
			m.errMsg = msg.err.Error()
		} else {
			m.result = msg.result
			m.errMsg = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.quitting = true
			return m, tea.Quit
		case "x":
			if m.breedNote != "" && m.phase != phaseObservations {
				m.breedNote = ""
				return m, nil
			}
		case "q":
			if m.phase == phaseDone {
				m.quitting = true
				return m, tea.Quit
			}
		case "enter":
			if m.phase == phaseDone && m.errMsg != "" {
				// Form values are retained; go back to the breed step for a retry
				m.phase = phaseBreed
				m.breedForm = m.buildBreedForm()
				return m, m.breedForm.Init()
			}
		}
	}

	switch m.phase {
	case phaseObservations:
		f, cmd := m.obsForm.Update(msg)
		if hf, ok := f.(*huh.Form); ok {
			m.obsForm = hf
		}
		if m.obsForm.State == huh.StateCompleted {
			if !m.breedsDone {
				m.phase = phaseWaitBreeds
				return m, m.spin.Tick
			}
			m.phase = phaseBreed
			m.breedForm = m.buildBreedForm()
			return m, m.breedForm.Init()
		}
		return m, cmd

	case phaseBreed:
		f, cmd := m.breedForm.Update(msg)
		if hf, ok := f.(*huh.Form); ok {
			m.breedForm = hf
		}
		if m.breedForm.State == huh.StateCompleted {
			m.phase = phaseSubmitting
			return m, tea.Batch(m.spin.Tick, m.submitCmd())
		}
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("New assessment"))
	sb.WriteString("\n")

	if m.breedNote != "" && m.phase != phaseObservations {
		sb.WriteString(styles.StatusWarning.Render("! "+m.breedNote) +
			styles.Help.Render("  (x to dismiss)") + "\n\n")
	}

	switch m.phase {
	case phaseObservations:
		sb.WriteString(m.obsForm.View())
		if !m.breedsDone {
			sb.WriteString("\n" + m.spin.View() + styles.Subtitle.Render(" loading breed list..."))
		}
	case phaseWaitBreeds:
		sb.WriteString(m.spin.View() + " loading breed list, submission not available yet...")
	case phaseBreed:
		sb.WriteString(m.breedForm.View())
	case phaseSubmitting:
		sb.WriteString(m.spin.View() + " submitting assessment...")
	case phaseDone:
		sb.WriteString(m.renderOutcome())
	}

	sb.WriteString(styles.Help.Render("\nesc: cancel"))
	return sb.String()
}

// renderOutcome renders the diagnosis result or the submission error
func (m *Model) renderOutcome() string {
	if m.errMsg != "" {
		body := styles.StatusCritical.Render("Error: "+m.errMsg) + "\n\n" +
			styles.Help.Render("enter: retry  q: quit")
		return styles.Panel.Render(body)
	}

	diagnosis := styles.StatusOK.Render(m.result.Diagnosis)
	if m.result.Positive() {
		diagnosis = styles.StatusCritical.Render(m.result.Diagnosis)
	}
	body := fmt.Sprintf("Diagnosis:  %s\nConfidence: %s\n\n%s",
		diagnosis,
		styles.ValueStyle.Render(m.result.ConfidencePercent()),
		styles.Help.Render("q: quit"))
	return styles.ResultPanel.Render(body)
}

// Result returns the final outcome after the program exits
func (m *Model) Result() (*form.Result, string) {
	return m.result, m.errMsg
}

// createTheme returns a huh theme using the shared palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(styles.Text)
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Muted).
		SetString("  ")

	return t
}
