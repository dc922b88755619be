package krona

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SuggestionStatus is the review state of a Suggestion.
type SuggestionStatus string

const (
	Pending  SuggestionStatus = "pending"
	Accepted SuggestionStatus = "accepted"
	Declined SuggestionStatus = "declined"
)

// ManualStrategy is the strategy name of mappings defined by the user rather
// than proposed by a strategy.
const ManualStrategy = "manual"

// suggestionSpace is the namespace of suggestion IDs.
var suggestionSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/krona/suggestion"))

// Suggestion proposes that the raw Symbol names the same instrument as
// Canonical.
//
// The ID only depends on the (Symbol, Canonical) pair, so it is stable
// across runs and can be used on the command line to review a suggestion.
type Suggestion struct {
	ID         uuid.UUID
	Symbol     string
	Canonical  string
	Confidence float64 // in [0,1]
	Strategy   string
	Rationale  string
	Status     SuggestionStatus
}

// NewSuggestion returns a pending suggestion.
func NewSuggestion(strategy, symbol, canonical string, confidence float64, rationale string) Suggestion {
	return Suggestion{
		ID:         SuggestionID(symbol, canonical),
		Symbol:     symbol,
		Canonical:  canonical,
		Confidence: confidence,
		Strategy:   strategy,
		Rationale:  rationale,
		Status:     Pending,
	}
}

// SuggestionID returns the ID of the suggestion mapping symbol to canonical.
func SuggestionID(symbol, canonical string) uuid.UUID {
	return uuid.NewSHA1(suggestionSpace, []byte(symbol+"\x00"+canonical))
}

// ShortID returns the first block of the ID, enough to designate a
// suggestion in a plan.
func (s Suggestion) ShortID() string { return s.ID.String()[:8] }

func (s Suggestion) String() string {
	return fmt.Sprintf("%s -> %s (%.0f%%, %s)", s.Symbol, s.Canonical, s.Confidence*100, s.Strategy)
}

// compareSuggestions orders suggestions by raw symbol, then by decreasing
// confidence, then by canonical.
func compareSuggestions(a, b Suggestion) int {
	if c := strings.Compare(a.Symbol, b.Symbol); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	return strings.Compare(a.Canonical, b.Canonical)
}

// Candidate is one canonical a conflicted symbol could map to.
type Candidate struct {
	Canonical  string
	Confidence float64
}

// Conflict reports a raw symbol whose mapping is ambiguous: either its best
// candidates are too close to call, or other raw symbols (the Contenders)
// compete for the same canonical with similar confidence.
type Conflict struct {
	Symbol     string
	Candidates []Candidate // by decreasing confidence
	Contenders []string    // sorted
}

// Decision is a reviewed suggestion, as saved between runs.
type Decision struct {
	Symbol    string
	Canonical string
	Status    SuggestionStatus // Accepted or Declined
}
