// ABOUTME: Submission pipeline for the clinical observation form
// ABOUTME: Single-slot in-flight guard, error translation, result formatting

package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/leishvet/leishvet-cli/internal/client"
)

// ErrSubmissionInFlight is returned when a second submit is attempted while
// one is outstanding. Submissions are never deduplicated or retried; the
// second attempt is simply rejected.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// ErrBreedsPending is returned when submission is attempted before the
// reference data finished loading.
var ErrBreedsPending = errors.New("breed list is still loading")

// genericSubmitError is the fallback message when the backend response
// carried no usable detail.
const genericSubmitError = "prediction failed, please try again"

// Predictor issues the prediction call
type Predictor interface {
	Predict(ctx context.Context, token string, input client.PredictionRequest) (*client.PredictionResult, error)
}

// Result is a display-ready diagnosis
type Result struct {
	Diagnosis  string
	Confidence float64
}

// ConfidencePercent formats the confidence as a percentage with one decimal
func (r Result) ConfidencePercent() string {
	return fmt.Sprintf("%.1f%%", r.Confidence*100)
}

// Positive reports whether the diagnosis is the positive label
func (r Result) Positive() bool {
	return r.Diagnosis == "Positivo"
}

// Submitter runs one prediction call per submit. It keeps the last outcome:
// a success clears any previous error, a failure clears any previous result.
type Submitter struct {
	predictor Predictor

	mu         sync.Mutex
	inFlight   bool
	breedsDone bool
	lastResult *Result
	lastError  string
}

// NewSubmitter creates a submission pipeline around the given predictor
func NewSubmitter(predictor Predictor) *Submitter {
	return &Submitter{predictor: predictor}
}

// MarkReferenceReady records that the breed loader has resolved. Submission
// is refused until this is called for the current form activation.
func (s *Submitter) MarkReferenceReady() {
	s.mu.Lock()
	s.breedsDone = true
	s.mu.Unlock()
}

// Submit issues exactly one prediction call. Preconditions are checked
// before any network I/O: resolved reference data, no outstanding
// submission, and a present bearer token.
func (s *Submitter) Submit(ctx context.Context, token string, payload client.PredictionRequest) (*Result, error) {
	s.mu.Lock()
	if !s.breedsDone {
		s.mu.Unlock()
		return nil, ErrBreedsPending
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if token == "" {
		return nil, client.ErrNotAuthenticated
	}

	prediction, err := s.predictor.Predict(ctx, token, payload)
	if err != nil {
		message := submitErrorMessage(err)
		s.mu.Lock()
		s.lastResult = nil
		s.lastError = message
		s.mu.Unlock()
		return nil, errors.New(message)
	}

	result := &Result{
		Diagnosis:  prediction.DiagnosisPrediction,
		Confidence: prediction.ConfidenceScore,
	}
	s.mu.Lock()
	s.lastResult = result
	s.lastError = ""
	s.mu.Unlock()
	return result, nil
}

// Last returns the outcome of the most recent submission: at most one of
// result and error message is set.
func (s *Submitter) Last() (*Result, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult, s.lastError
}

// submitErrorMessage converts a prediction failure to a domain message.
// API errors surface their extracted detail; raw transport errors never
// reach the display layer.
func submitErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if errors.Is(err, client.ErrNotAuthenticated) {
		return "not authenticated, log in first"
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return genericSubmitError
}
