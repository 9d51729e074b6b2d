package extractor

import "strings"

// yesNoChoices is the implicit choice set for TypeYesNo fields.
var yesNoChoices = []Choice{
	{Value: "yes", Digit: "1", Keywords: []string{"yes", "yeah", "yep", "correct", "sure", "right"}},
	{Value: "no", Digit: "2", Keywords: []string{"no", "nope", "nah", "negative"}},
}

// matchChoice applies deterministic digit/keyword matching for closed-choice
// fields. No network call is ever made for these.
func matchChoice(input string, spec FieldSpec) Result {
	choices := spec.Choices
	if spec.Type == TypeYesNo {
		choices = yesNoChoices
	}
	if input == "" {
		return Result{Outcome: OutcomeFailed}
	}

	lower := strings.ToLower(input)

	// Digit presses win outright.
	for _, c := range choices {
		if c.Digit != "" && lower == c.Digit {
			return Result{Value: c.Value, Confidence: 1.0, Outcome: OutcomeOK}
		}
	}

	// Keyword containment, first match wins in declaration order.
	for _, c := range choices {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return Result{Value: c.Value, Confidence: 0.9, Outcome: OutcomeOK}
			}
		}
	}

	// A lone digit that maps to nothing is unambiguous garbage, but spoken
	// input may still contain the canonical value itself.
	for _, c := range choices {
		if strings.Contains(lower, strings.ToLower(c.Value)) {
			return Result{Value: c.Value, Confidence: 0.8, Outcome: OutcomeOK}
		}
	}

	return Result{Outcome: OutcomeFailed}
}
