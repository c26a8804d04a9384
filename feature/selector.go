package feature

import (
	"context"
	"fmt"
	"strings"
)

/*
Operator is the comparison a Selector applies between the value of its
attribute on a sample and its own value.
*/
type Operator string

const (
	// Equal selects samples whose attribute value equals the selector value
	Equal Operator = "="
	// NotEqual selects samples whose attribute value is defined and differs
	// from the selector value
	NotEqual Operator = "!="
)

// rank orders operators for Less: Equal before NotEqual, unknown ones last.
func (op Operator) rank() int {
	switch op {
	case Equal:
		return 0
	case NotEqual:
		return 1
	}
	return 2
}

/*
Sample is an interface for something that can satisfy a Selector.

Its ValueFor method returns the value corresponding to the attribute
whose name is passed as parameter, or nil if it is undefined.
*/
type Sample interface {
	ValueFor(ctx context.Context, attribute string) (interface{}, error)
}

/*
Selector is an immutable (attribute, operator, value) condition on samples.

Selectors are comparable values: two selectors are the same selector if and
only if they are equal, so they can be used directly as map keys. They are
totally ordered by Less.
*/
type Selector struct {
	Attribute string
	Operator  Operator
	Value     string
}

/*
NewSelector takes an attribute name, an operator and a value and returns the
Selector for them.
*/
func NewSelector(attribute string, operator Operator, value string) Selector {
	return Selector{attribute, operator, value}
}

/*
SatisfiedBy receives a sample and returns a boolean indicating if the sample
satisfies the selector. Samples with an undefined value for the attribute
satisfy no selector. A value that is not a string never equals a selector
value.
*/
func (s Selector) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	val, err := sample.ValueFor(ctx, s.Attribute)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}
	stringVal, ok := val.(string)
	switch s.Operator {
	case Equal:
		return ok && stringVal == s.Value, nil
	case NotEqual:
		return !ok || stringVal != s.Value, nil
	}
	return false, fmt.Errorf("selector %v has unknown operator %q", s, s.Operator)
}

/*
Less reports whether s sorts before o: by attribute, then by value, then by
operator, Equal first.
*/
func (s Selector) Less(o Selector) bool {
	if s.Attribute != o.Attribute {
		return s.Attribute < o.Attribute
	}
	if s.Value != o.Value {
		return s.Value < o.Value
	}
	if s.Operator.rank() != o.Operator.rank() {
		return s.Operator.rank() < o.Operator.rank()
	}
	return s.Operator < o.Operator
}

func (s Selector) String() string {
	return fmt.Sprintf("%s %s '%s'", s.Attribute, s.Operator, s.Value)
}

/*
ParseSelector takes a string in the form attribute=value or attribute!=value
and returns the Selector it describes or an error.
*/
func ParseSelector(str string) (Selector, error) {
	i, op := -1, Equal
	for _, candidate := range []Operator{NotEqual, Equal} {
		if j := strings.Index(str, string(candidate)); j >= 0 && (i < 0 || j < i) {
			i, op = j, candidate
		}
	}
	if i > 0 {
		attribute := strings.TrimSpace(str[:i])
		value := strings.Trim(strings.TrimSpace(str[i+len(op):]), "'")
		if attribute != "" {
			return NewSelector(attribute, op, value), nil
		}
	}
	return Selector{}, fmt.Errorf("cannot parse selector %q: expected attribute=value or attribute!=value", str)
}
