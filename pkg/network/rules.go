package network

import (
	"fmt"
	"strings"

	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
)

// TypePair is one ordered cross-type pairing rule. The order is cosmetic but
// binding: the rule (person, organization) labels its edges
// "person-organization" no matter which endpoint sorts first in the edge key.
type TypePair struct {
	A string
	B string
}

// RelationType renders the edge type label for this rule.
func (p TypePair) RelationType() string {
	return p.A + "-" + p.B
}

func (p TypePair) String() string {
	return p.RelationType()
}

// DefaultTypePairs pairs every supported type with every later type in
// canonical order, giving ten cross-type rules.
func DefaultTypePairs() []TypePair {
	labels := catalog.SingularLabels()
	var pairs []TypePair
	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			pairs = append(pairs, TypePair{A: labels[i], B: labels[j]})
		}
	}
	return pairs
}

// ParseTypePair parses a rule written as "person-organization".
func ParseTypePair(s string) (TypePair, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return TypePair{}, fmt.Errorf("type pair %q must have the form \"a-b\"", s)
	}
	pair := TypePair{A: strings.TrimSpace(parts[0]), B: strings.TrimSpace(parts[1])}
	if err := pair.validate(); err != nil {
		return TypePair{}, err
	}
	return pair, nil
}

// ParseTypePairs parses and validates a rule list: every side must be a
// supported singular type, a rule may not pair a type with itself, and the
// same unordered pair may appear only once.
func ParseTypePairs(specs []string) ([]TypePair, error) {
	pairs := make([]TypePair, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		pair, err := ParseTypePair(spec)
		if err != nil {
			return nil, err
		}

		low, high := pair.A, pair.B
		if high < low {
			low, high = high, low
		}
		unordered := low + "-" + high
		if _, dup := seen[unordered]; dup {
			return nil, fmt.Errorf("type pair %q duplicates an earlier rule", spec)
		}
		seen[unordered] = struct{}{}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (p TypePair) validate() error {
	if _, ok := catalog.TypeBySingular(p.A); !ok {
		return fmt.Errorf("type pair side %q is not a supported entity type", p.A)
	}
	if _, ok := catalog.TypeBySingular(p.B); !ok {
		return fmt.Errorf("type pair side %q is not a supported entity type", p.B)
	}
	if p.A == p.B {
		return fmt.Errorf("type pair %q pairs a type with itself", p.RelationType())
	}
	return nil
}

// pairTuples renders rules for the snapshot metadata.
func pairTuples(pairs []TypePair) [][2]string {
	tuples := make([][2]string, len(pairs))
	for i, pair := range pairs {
		tuples[i] = [2]string{pair.A, pair.B}
	}
	return tuples
}
