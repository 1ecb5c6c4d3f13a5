package extract

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minParagraphLen = 50
	maxSummaryLen   = 200
)

var (
	summaryFieldRe    = regexp.MustCompile(`"monthly_summary"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	summaryInlineRe   = regexp.MustCompile(`(?im)^[\s#*>]*(?:monthly\s+)?(?:summary|overview)\**\s*[:\-]\s*\**\s*(\S[^\n]*)$`)
	summaryHeadingRe  = regexp.MustCompile(`(?im)^[\s#*>]*(?:monthly\s+)?(?:summary|overview)\**\s*:?\s*\n+[ \t]*(\S[^\n]*)`)
	capSentenceRe     = regexp.MustCompile(`(?m)^[ \t]*([A-Z][^.!?\n]{9,}[.!?])`)
	blankLineRe       = regexp.MustCompile(`\n[ \t]*\n`)
	structuralStartRe = regexp.MustCompile(`(?i)^(?:week\s*\d|goals?\b|focus\b|monday|tuesday|wednesday|thursday|friday|saturday|sunday)`)
)

// findSummary applies the summary heuristics in order and returns the first hit.
func findSummary(raw string) (string, string) {
	if m := summaryFieldRe.FindStringSubmatch(raw); m != nil {
		var s string
		if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), "monthly_summary field"
		}
	}
	if m := summaryInlineRe.FindStringSubmatch(raw); m != nil {
		return cleanLine(m[1]), "summary lead-in"
	}
	if m := summaryHeadingRe.FindStringSubmatch(raw); m != nil {
		if s := cleanLine(m[1]); !structuralStartRe.MatchString(s) {
			return s, "summary heading"
		}
	}
	for _, m := range capSentenceRe.FindAllStringSubmatch(raw, -1) {
		s := strings.TrimSpace(m[1])
		if !structuralStartRe.MatchString(s) {
			return s, "first sentence"
		}
	}
	for _, p := range blankLineRe.Split(raw, -1) {
		p = strings.Join(strings.Fields(p), " ")
		if len(p) > minParagraphLen {
			return truncate(p, maxSummaryLen), "first paragraph"
		}
	}
	return "", ""
}

func cleanLine(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_"))
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
