package feature

import (
	"context"
	"fmt"
)

// Target is the (attribute, value) pair samples are checked against. A sample
// matches the target when its value for the attribute equals the target value.
type Target struct {
	Attribute string
	Value     string
}

// NewTarget returns a Target for the given attribute and value.
func NewTarget(attribute, value string) Target {
	return Target{attribute, value}
}

// ParseTarget takes a string in the form attribute=value and returns the
// Target it describes.
func ParseTarget(str string) (Target, error) {
	s, err := ParseSelector(str)
	if err != nil {
		return Target{}, fmt.Errorf("parsing target: %v", err)
	}
	if s.Operator != Equal {
		return Target{}, fmt.Errorf("parsing target %q: only the %s operator is allowed", str, Equal)
	}
	return Target{s.Attribute, s.Value}, nil
}

// Selector returns the equality selector describing the target.
func (t Target) Selector() Selector {
	return NewSelector(t.Attribute, Equal, t.Value)
}

// MatchedBy reports whether the sample matches the target.
func (t Target) MatchedBy(ctx context.Context, sample Sample) (bool, error) {
	return t.Selector().SatisfiedBy(ctx, sample)
}

func (t Target) String() string {
	return fmt.Sprintf("%s = '%s'", t.Attribute, t.Value)
}
