package subgroups

import (
	"context"
	"strings"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"golang.org/x/exp/slices"
)

/*
Pattern is a conjunction of selectors, the description of a subgroup.
*/
type Pattern []feature.Selector

/*
String renders the pattern as a bracketed, comma-separated list of its
selectors sorted by attribute and value, like [a1 = 'b', a3 = 'g'].
*/
func (p Pattern) String() string {
	return "[" + p.Key() + "]"
}

/*
Key returns a string that identifies the pattern regardless of the order
of its selectors.
*/
func (p Pattern) Key() string {
	sorted := slices.Clone(p)
	slices.SortFunc(sorted, feature.Selector.Less)
	strs := make([]string, len(sorted))
	for i, s := range sorted {
		strs[i] = s.String()
	}
	return strings.Join(strs, ", ")
}

/*
Covers takes a context and a sample and returns whether the sample
satisfies every selector in the pattern.
*/
func (p Pattern) Covers(ctx context.Context, sample feature.Sample) (bool, error) {
	for _, s := range p {
		ok, err := s.SatisfiedBy(ctx, sample)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// join returns a new pattern with the selectors of beta followed by those of p.
func (p Pattern) join(beta ...feature.Selector) Pattern {
	result := make(Pattern, 0, len(beta)+len(p))
	result = append(result, beta...)
	return append(result, p...)
}
