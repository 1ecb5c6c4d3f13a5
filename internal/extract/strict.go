package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/alexanderramin/planora/internal/domain"
)

var errNotObject = errors.New("not a JSON object")

// StrictJSON decodes the response as a JSON object. A decoded object with a
// weekly breakdown completes the chain and is returned as-is.
type StrictJSON struct{}

func (StrictJSON) Name() string { return "strict_json" }
func (StrictJSON) Tier() int    { return ConfidenceJSON }

func (StrictJSON) Apply(raw string, st *State) (Outcome, error) {
	var lastErr error
	for _, candidate := range jsonCandidates(raw) {
		resp, err := decodeObject(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.WeeklyBreakdown) == 0 {
			// Keep whatever the object carried and let the remaining
			// strategies fill in the schedule. The decoded fields are as
			// trustworthy as a pattern match, not as a full plan.
			mergeMissing(&st.Data, resp)
			st.raise(ConfidencePattern)
			st.note("Successfully parsed as JSON without weekly_breakdown")
			return OutcomeSkipped, nil
		}
		st.Data = resp
		st.note("Successfully parsed as JSON")
		return OutcomeComplete, nil
	}
	if lastErr == nil {
		return OutcomeSkipped, nil
	}
	return OutcomeSkipped, lastErr
}

// jsonCandidates lists the substrings worth attempting, most literal first.
func jsonCandidates(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	out := []string{trimmed}
	if first, last := strings.IndexByte(trimmed, '{'), strings.LastIndexByte(trimmed, '}'); first >= 0 && last > first {
		if sub := trimmed[first : last+1]; sub != trimmed {
			out = append(out, sub)
		}
	}
	if block := firstObject(unfence(trimmed)); block != "" {
		if cleaned := repairJSON(block); !contains(out, cleaned) {
			out = append(out, cleaned)
		}
	}
	return out
}

func decodeObject(s string) (domain.StructuredResponse, error) {
	var resp domain.StructuredResponse
	b := bytes.TrimSpace([]byte(s))
	if len(b) == 0 || b[0] != '{' {
		return resp, errNotObject
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return domain.StructuredResponse{}, err
	}
	if resp.IsEmpty() {
		return resp, errors.New("JSON object has no plan fields")
	}
	return resp, nil
}

// mergeMissing copies fields from src that dst does not have yet.
func mergeMissing(dst *domain.StructuredResponse, src domain.StructuredResponse) {
	if dst.MonthlySummary == "" {
		dst.MonthlySummary = src.MonthlySummary
	}
	if len(dst.WeeklyBreakdown) == 0 {
		dst.WeeklyBreakdown = src.WeeklyBreakdown
	}
	if len(dst.PersonalizationNotes) == 0 {
		dst.PersonalizationNotes = src.PersonalizationNotes
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
