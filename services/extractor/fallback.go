package extractor

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	datePattern  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

// fallbackExtract is the deterministic heuristic used when the NLU service is
// down or returned garbage. It always produces a best-effort value for
// free-text fields; the caller gets a next prompt either way.
func fallbackExtract(input string, spec FieldSpec) Result {
	switch spec.Type {
	case TypeEmail:
		return Result{Value: normalizeSpokenEmail(input), Confidence: 0.4, Outcome: OutcomeFallback}
	case TypeName:
		return Result{Value: titleCaseName(input), Confidence: 0.5, Outcome: OutcomeFallback}
	case TypeDate:
		if d, ok := guessDate(input, time.Now()); ok {
			return Result{Value: d, Confidence: 0.5, Outcome: OutcomeFallback}
		}
		return Result{Outcome: OutcomeFailed}
	default:
		// Addresses and free text pass through cleaned; the geocoder decides
		// whether the address is usable.
		return Result{Value: cleanUtterance(input), Confidence: 0.4, Outcome: OutcomeFallback}
	}
}

// normalizeSpokenEmail converts spellings like "john dot doe at gmail dot com"
// to "john.doe@gmail.com".
func normalizeSpokenEmail(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	if m := emailPattern.FindString(s); m != "" {
		return m
	}
	s = spaceRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " at ", "@")
	s = strings.ReplaceAll(s, " dot ", ".")
	s = strings.ReplaceAll(s, " underscore ", "_")
	s = strings.ReplaceAll(s, " dash ", "-")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// titleCaseName splits an utterance into first token / remaining tokens and
// capitalizes each word.
func titleCaseName(input string) string {
	words := strings.Fields(strings.TrimSpace(input))
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

func cleanUtterance(input string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(input), " ")
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var ordinalSuffix = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

// guessDate resolves common spoken date forms relative to now: ISO dates,
// "tomorrow", weekday names (next occurrence), and "month day" phrases.
func guessDate(input string, now time.Time) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(input))

	if m := datePattern.FindString(s); m != "" {
		if _, err := time.Parse("2006-01-02", m); err == nil {
			return m, true
		}
	}

	if strings.Contains(s, "tomorrow") {
		return now.AddDate(0, 0, 1).Format("2006-01-02"), true
	}
	if strings.Contains(s, "today") {
		return now.Format("2006-01-02"), true
	}

	for name, wd := range weekdays {
		if strings.Contains(s, name) {
			days := (int(wd) - int(now.Weekday()) + 7) % 7
			if days == 0 {
				days = 7
			}
			return now.AddDate(0, 0, days).Format("2006-01-02"), true
		}
	}

	s = ordinalSuffix.ReplaceAllString(s, "$1")
	fields := strings.Fields(s)
	for i, f := range fields {
		month, ok := monthNames[f]
		if !ok || i+1 >= len(fields) {
			continue
		}
		day := 0
		for _, r := range fields[i+1] {
			if r < '0' || r > '9' {
				day = 0
				break
			}
			day = day*10 + int(r-'0')
		}
		if day >= 1 && day <= 31 {
			year := now.Year()
			candidate := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
			if candidate.Before(now) {
				candidate = candidate.AddDate(1, 0, 0)
			}
			return candidate.Format("2006-01-02"), true
		}
	}

	return "", false
}
