// ABOUTME: Tests for the prediction form model
// ABOUTME: Drives phase transitions through Update without a terminal

package predictform

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leishvet/leishvet-cli/internal/client"
	"github.com/leishvet/leishvet-cli/internal/form"
)

type stubLister struct {
	breeds []client.Breed
	err    error
}

func (s *stubLister) Breeds(ctx context.Context, token string) ([]client.Breed, error) {
	return s.breeds, s.err
}

type stubPredictor struct {
	result *client.PredictionResult
	err    error
}

func (s *stubPredictor) Predict(ctx context.Context, token string, input client.PredictionRequest) (*client.PredictionResult, error) {
	return s.result, s.err
}

func newTestModel(t *testing.T, lister form.BreedLister, predictor form.Predictor) *Model {
	t.Helper()
	return New(context.Background(), form.Default(),
		form.NewBreedLoader(lister), form.NewSubmitter(predictor), "tok-1")
}

func TestFieldLabels_CoverEverySchemaField(t *testing.T) {
	for _, f := range form.Default().Fields() {
		if _, ok := fieldLabels[f.APIKey]; !ok {
			t.Errorf("field %q has no display label", f.APIKey)
		}
	}
}

func TestUpdate_BreedsLoadedMarksReferenceReady(t *testing.T) {
	predictor := &stubPredictor{result: &client.PredictionResult{}}
	m := newTestModel(t, &stubLister{}, predictor)

	list := form.BreedList{Names: []string{"Beagle"}}
	m.Update(breedsLoadedMsg{list: list})

	if !m.breedsDone {
		t.Error("expected breedsDone after load")
	}
	// With reference data resolved, submission is no longer refused
	if _, err := m.submitter.Submit(context.Background(), "tok-1", nil); errors.Is(err, form.ErrBreedsPending) {
		t.Error("expected the submitter to accept submissions after breed load")
	}
}

func TestUpdate_DegradedLoadSetsDismissibleNote(t *testing.T) {
	m := newTestModel(t, &stubLister{}, &stubPredictor{})

	m.Update(breedsLoadedMsg{list: form.BreedList{Names: []string{form.FallbackBreed}, Degraded: true}})
	if m.breedNote == "" {
		t.Fatal("expected a degraded-load note")
	}

	m.phase = phaseBreed
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.breedNote != "" {
		t.Error("expected x to dismiss the note")
	}
}

func TestUpdate_WaitBreedsAdvancesWhenLoaded(t *testing.T) {
	m := newTestModel(t, &stubLister{}, &stubPredictor{})
	m.phase = phaseWaitBreeds

	m.Update(breedsLoadedMsg{list: form.BreedList{Names: []string{"Beagle"}}})

	if m.phase != phaseBreed {
		t.Errorf("expected breed phase, got %d", m.phase)
	}
	if m.breedForm == nil {
		t.Error("expected the breed form to be built")
	}
}

func TestUpdate_SubmitOutcome(t *testing.T) {
	m := newTestModel(t, &stubLister{}, &stubPredictor{})
	m.phase = phaseSubmitting

	m.Update(submitDoneMsg{result: &form.Result{Diagnosis: "Negativo", Confidence: 0.9}})

	if m.phase != phaseDone {
		t.Errorf("expected done phase, got %d", m.phase)
	}
	result, errMsg := m.Result()
	if result == nil || result.Diagnosis != "Negativo" {
		t.Errorf("expected the result retained, got %+v", result)
	}
	if errMsg != "" {
		t.Errorf("expected no error message, got %q", errMsg)
	}
}

func TestUpdate_SubmitFailureThenRetry(t *testing.T) {
	m := newTestModel(t, &stubLister{}, &stubPredictor{})
	m.Update(breedsLoadedMsg{list: form.BreedList{Names: []string{"Beagle"}}})
	m.phase = phaseSubmitting

	m.Update(submitDoneMsg{err: errors.New("insufficient data")})

	if m.phase != phaseDone {
		t.Fatalf("expected done phase, got %d", m.phase)
	}
	if _, errMsg := m.Result(); errMsg != "insufficient data" {
		t.Errorf("expected the error retained, got %q", errMsg)
	}

	// Enter returns to the breed step with values intact for a retry
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseBreed {
		t.Errorf("expected retry to return to the breed phase, got %d", m.phase)
	}
}

func TestUpdate_EscQuits(t *testing.T) {
	m := newTestModel(t, &stubLister{}, &stubPredictor{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if !m.quitting {
		t.Error("expected quitting to be set")
	}
}
