package extractor

import (
	"testing"
	"time"
)

func TestNormalizeSpokenEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"john at gmail dot com", "john@gmail.com"},
		{"jane dot doe at example dot org", "jane.doe@example.org"},
		{"already@valid.com", "already@valid.com"},
		{"My Email Is BOB at YAHOO dot COM", "myemailisbob@yahoo.com"},
		{"a underscore b at c dash d dot net", "a_b@c-d.net"},
	}
	for _, tt := range tests {
		if got := normalizeSpokenEmail(tt.in); got != tt.want {
			t.Errorf("normalizeSpokenEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleCaseName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"john smith", "John Smith"},
		{"MARIA DEL CARMEN", "Maria Del Carmen"},
		{"  lee  ", "Lee"},
	}
	for _, tt := range tests {
		if got := titleCaseName(tt.in); got != tt.want {
			t.Errorf("titleCaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGuessDate(t *testing.T) {
	// Wednesday.
	now := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2026-10-15", "2026-10-15", true},
		{"tomorrow works", "2026-09-03", true},
		{"today if possible", "2026-09-02", true},
		{"friday", "2026-09-04", true},
		{"next wednesday", "2026-09-09", true}, // same weekday rolls a full week
		{"september 20th", "2026-09-20", true},
		{"august 1st", "2027-08-01", true}, // already past, next year
		{"no date here", "", false},
	}
	for _, tt := range tests {
		got, ok := guessDate(tt.in, now)
		if ok != tt.ok || got != tt.want {
			t.Errorf("guessDate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStripMarkdownFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"{\"value\": \"x\"}", "{\"value\": \"x\"}"},
		{"```json\n{\"value\": \"x\"}\n```", "{\"value\": \"x\"}"},
		{"```\n{\"value\": \"x\"}\n```", "{\"value\": \"x\"}"},
	}
	for _, tt := range tests {
		if got := StripMarkdownFence(tt.in); got != tt.want {
			t.Errorf("StripMarkdownFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
