package krona

import (
	"fmt"
	"strings"
)

// CostBasisMethod selects how the cost of sold units is computed.
type CostBasisMethod int

const (
	// AverageCost values every sold unit at the average cost of the held units.
	AverageCost CostBasisMethod = iota
	// FIFO sells the units of the oldest lots first.
	FIFO
)

var costBasisNames = map[CostBasisMethod]string{
	AverageCost: "average",
	FIFO:        "fifo",
}

func (m CostBasisMethod) String() string {
	if name, ok := costBasisNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseCostBasisMethod parses "average" or "fifo", ignoring case. An empty
// string is the default AverageCost.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AverageCost, nil
	}
	for m, name := range costBasisNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown cost basis method: %q", s)
}

func (m CostBasisMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *CostBasisMethod) UnmarshalText(text []byte) (err error) {
	*m, err = ParseCostBasisMethod(string(text))
	return err
}
