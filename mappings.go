package krona

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// mappingsFile is the on disk form of the review decisions:
//
//	mappings:
//	  Evolution Gaming Group:
//	    synonyms: [EVO, EVOLUTION]
//	declined:
//	  - symbol: VOLVO A
//	    canonical: VOLVO B
type mappingsFile struct {
	Mappings map[string]synonyms `yaml:"mappings,omitempty"`
	Declined []declinedPair      `yaml:"declined,omitempty"`
}

type synonyms struct {
	Synonyms []string `yaml:"synonyms,flow"`
}

type declinedPair struct {
	Symbol    string `yaml:"symbol"`
	Canonical string `yaml:"canonical"`
}

// DecodeMappings reads decisions written by EncodeMappings.
func DecodeMappings(r io.Reader) ([]Decision, error) {
	var f mappingsFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding mappings: %w", err)
	}

	var decisions []Decision
	owner := make(map[string]string)
	for canonical, group := range f.Mappings {
		canonical = strings.TrimSpace(canonical)
		if canonical == "" {
			return nil, errors.New("mapping with an empty canonical symbol")
		}
		for _, symbol := range group.Synonyms {
			symbol = strings.TrimSpace(symbol)
			if symbol == "" || symbol == canonical {
				continue
			}
			if prev, ok := owner[symbol]; ok && prev != canonical {
				return nil, fmt.Errorf("%q is a synonym of both %q and %q", symbol, prev, canonical)
			}
			owner[symbol] = canonical
			decisions = append(decisions, Decision{Symbol: symbol, Canonical: canonical, Status: Accepted})
		}
	}
	for _, d := range f.Declined {
		if d.Symbol == "" || d.Canonical == "" {
			return nil, fmt.Errorf("declined pair %q -> %q is incomplete", d.Symbol, d.Canonical)
		}
		decisions = append(decisions, Decision{Symbol: d.Symbol, Canonical: d.Canonical, Status: Declined})
	}
	slices.SortFunc(decisions, compareDecisions)
	return decisions, nil
}

// EncodeMappings writes decisions in YAML. Accepted pairs are grouped by
// canonical symbol.
func EncodeMappings(w io.Writer, decisions []Decision) error {
	f := mappingsFile{Mappings: make(map[string]synonyms)}
	for _, d := range decisions {
		switch d.Status {
		case Accepted:
			g := f.Mappings[d.Canonical]
			g.Synonyms = append(g.Synonyms, d.Symbol)
			slices.Sort(g.Synonyms)
			f.Mappings[d.Canonical] = g
		case Declined:
			f.Declined = append(f.Declined, declinedPair{Symbol: d.Symbol, Canonical: d.Canonical})
		}
	}
	slices.SortFunc(f.Declined, func(a, b declinedPair) int {
		return compareDecisions(Decision{Symbol: a.Symbol, Canonical: a.Canonical}, Decision{Symbol: b.Symbol, Canonical: b.Canonical})
	})

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding mappings: %w", err)
	}
	return enc.Close()
}

// LoadMappings reads the decisions saved in the file at path. A missing
// file holds no decision.
func LoadMappings(path string) ([]Decision, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	decisions, err := DecodeMappings(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return decisions, nil
}

// SaveMappings writes decisions to the file at path.
func SaveMappings(path string, decisions []Decision) error {
	var buf bytes.Buffer
	if err := EncodeMappings(&buf, decisions); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func compareDecisions(a, b Decision) int {
	if c := strings.Compare(a.Symbol, b.Symbol); c != 0 {
		return c
	}
	return strings.Compare(a.Canonical, b.Canonical)
}
