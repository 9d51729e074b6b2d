// Package extractor turns raw utterances and keypresses into structured field
// values. Closed-choice fields are matched deterministically; free-text fields
// go to the NLU service with a deterministic heuristic behind it. A phone call
// cannot be retried silently, so extraction never fails a turn: the worst case
// is a low-confidence fallback value.
package extractor

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FieldType decides the extraction strategy for a field.
type FieldType string

const (
	TypeChoice  FieldType = "choice"
	TypeYesNo   FieldType = "yesno"
	TypeName    FieldType = "name"
	TypeEmail   FieldType = "email"
	TypeAddress FieldType = "address"
	TypeDate    FieldType = "date"
	TypeText    FieldType = "text"
)

// Choice is one accepted answer for a closed-choice field.
type Choice struct {
	Value    string   // canonical stored value
	Digit    string   // DTMF digit mapped to this choice
	Keywords []string // spoken words that select it
}

// FieldSpec describes the target field for one extraction.
type FieldSpec struct {
	Name        string
	Type        FieldType
	Choices     []Choice
	Description string // natural-language schema description for the NLU call
}

// Extraction outcomes. Fallback marks the degraded path so tests and
// operators can see it; callers treat Ok and Fallback values identically.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFallback
	OutcomeFailed
)

// Result is the tagged outcome of one extraction.
type Result struct {
	Value      string
	Confidence float64
	Outcome    Outcome
}

// Failed reports whether no usable value could be produced even via fallback.
func (r Result) Failed() bool { return r.Outcome == OutcomeFailed }

// NLUClient is the external extraction service boundary.
type NLUClient interface {
	ExtractField(ctx context.Context, utterance string, spec FieldSpec) (value string, confidence float64, err error)
}

// Extractor is the production field extractor.
type Extractor struct {
	nlu     NLUClient
	timeout time.Duration
	logger  *zap.Logger
}

// New builds an Extractor. A nil NLU client is allowed; free-text fields then
// go straight to the deterministic fallback.
func New(nlu NLUClient, timeout time.Duration, logger *zap.Logger) *Extractor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Extractor{nlu: nlu, timeout: timeout, logger: logger}
}

// Extract resolves one field from an utterance or digit press. It is pure with
// respect to session state; the caller decides how to store the result.
func (e *Extractor) Extract(ctx context.Context, utteranceOrDigits string, spec FieldSpec) Result {
	input := strings.TrimSpace(utteranceOrDigits)

	switch spec.Type {
	case TypeChoice, TypeYesNo:
		return matchChoice(input, spec)
	}

	if input == "" {
		return Result{Outcome: OutcomeFailed}
	}

	if e.nlu != nil {
		nluCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		value, confidence, err := e.nlu.ExtractField(nluCtx, input, spec)
		if err == nil && strings.TrimSpace(value) != "" {
			return Result{Value: strings.TrimSpace(value), Confidence: confidence, Outcome: OutcomeOK}
		}
		if err != nil && e.logger != nil {
			e.logger.Warn("NLU extraction failed, using fallback",
				zap.String("field", spec.Name), zap.Error(err))
		}
	}

	return fallbackExtract(input, spec)
}
