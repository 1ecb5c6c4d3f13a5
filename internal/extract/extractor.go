// Package extract recovers a structured monthly plan from free-form model
// output. Strategies run in order from most to least trusted; each one that
// recovers data raises the confidence to its tier.
package extract

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planora/internal/domain"
)

// Confidence tiers. They are coarse markers, not probabilities.
const (
	ConfidenceJSON    = 90
	ConfidencePattern = 60
	ConfidenceText    = 30
)

// MaxInputBytes bounds the text handed to pattern strategies.
const MaxInputBytes = 1 << 20

// criticalFields must be present for a plan to be considered complete.
var criticalFields = []string{"monthly_summary"}

// Outcome reports what a strategy achieved.
type Outcome int

const (
	// OutcomeSkipped means the strategy recovered nothing.
	OutcomeSkipped Outcome = iota
	// OutcomePartial means some fields were recovered; later strategies still run.
	OutcomePartial
	// OutcomeComplete ends the chain.
	OutcomeComplete
)

// State accumulates the result across strategies.
type State struct {
	Data       domain.StructuredResponse
	Confidence int
	Notes      []string
	Errors     []string
}

func (s *State) raise(c int) {
	if c > s.Confidence {
		s.Confidence = c
	}
}

func (s *State) note(format string, args ...any) {
	s.Notes = append(s.Notes, fmt.Sprintf(format, args...))
}

func (s *State) fail(format string, args ...any) {
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

// Strategy is one step of the extraction chain. Tier is the confidence the
// state is raised to when the strategy recovers anything.
type Strategy interface {
	Name() string
	Tier() int
	Apply(raw string, st *State) (Outcome, error)
}

// Extractor runs an ordered chain of strategies.
type Extractor struct {
	strategies []Strategy
}

// DefaultStrategies returns strict JSON, pattern matching and the text
// fallback, in that order.
func DefaultStrategies() []Strategy {
	return []Strategy{StrictJSON{}, Patterns{}, TextFallback{}}
}

// New creates an Extractor. With no strategies the default chain is used.
func New(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Extractor{strategies: strategies}
}

var defaultExtractor = New()

// ExtractAll runs the default chain over raw.
func ExtractAll(raw string) domain.ExtractionResult {
	return defaultExtractor.Extract(raw)
}

// Extract never fails: bad input degrades confidence and is described in
// the returned metadata.
func (e *Extractor) Extract(raw string) domain.ExtractionResult {
	st := &State{}
	format := DetectFormat(raw)

	scan := raw
	if len(scan) > MaxInputBytes {
		scan = scan[:MaxInputBytes]
		st.fail("input truncated to %d bytes for extraction", MaxInputBytes)
	}

	for _, s := range e.strategies {
		outcome, err := apply(s, scan, st)
		if err != nil {
			st.fail("%s: %v", s.Name(), err)
		}
		if outcome == OutcomeSkipped {
			continue
		}
		st.raise(s.Tier())
		if outcome == OutcomeComplete {
			break
		}
	}

	return domain.ExtractionResult{
		RawContent:     raw,
		StructuredData: st.Data,
		Metadata: domain.ExtractionMetadata{
			Confidence:      st.Confidence,
			DetectedFormat:  format,
			ExtractionNotes: strings.Join(st.Notes, "; "),
			ParsingErrors:   nonNil(st.Errors),
			MissingFields:   missingFields(st.Data),
		},
	}
}

// apply runs one strategy, converting a panic into an error.
func apply(s Strategy, raw string, st *State) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomeSkipped
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Apply(raw, st)
}

func missingFields(data domain.StructuredResponse) []string {
	missing := []string{}
	for _, f := range criticalFields {
		switch f {
		case "monthly_summary":
			if strings.TrimSpace(data.MonthlySummary) == "" {
				missing = append(missing, f)
			}
		}
	}
	return missing
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
