package feature

import (
	"fmt"
	"sort"
)

/*
Feature represents a property that can be observed on a sample, that is, a
column of a dataset.
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite set. Discrete features are the only ones that
selectors can be built upon.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
	index           map[string]struct{}
}

/*
ContinuousFeature represents a property that can be observed and that can take
a numeric value. Datasets may declare them, but no selector can be generated
for them.
*/
type ContinuousFeature struct {
	name string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
A nil or empty slice of values declares a feature that accepts any string.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	var index map[string]struct{}
	if len(availableValues) > 0 {
		index = make(map[string]struct{}, len(availableValues))
		for _, v := range availableValues {
			index[v] = struct{}{}
		}
	}
	return &DiscreteFeature{name, availableValues, index}
}

/*
NewContinuousFeature takes a name string and returns a continuous feature with
the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is a string included in the available values of the feature,
the method returns true and nil. Otherwise it returns false and an error
describing the reason. Undefined (nil) values are considered valid here: it is
up to the consumers of a dataset to accept or reject them.
*/
func (df *DiscreteFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("discrete feature %s expects string value, got %T value", df.Name(), value)
	}
	if df.index == nil {
		return true, nil
	}
	if _, ok := df.index[vs]; !ok {
		return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), vs)
	}
	return true, nil
}

/*
AvailableValues returns a sorted copy of the values declared for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	values := append([]string{}, df.availableValues...)
	sort.Strings(values)
	return values
}

/*
Selector returns the equality selector for the feature and the given value.
*/
func (df *DiscreteFeature) Selector(value string) Selector {
	return NewSelector(df.name, Equal, value)
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is a float64 it returns true and nil, otherwise it returns
false and an error describing the reason.
*/
func (cf *ContinuousFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	_, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("continuous feature %s expects float64 value, got %T value", cf.Name(), value)
	}
	return true, nil
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}

/*
Find takes a slice of features and a name and returns the feature in the slice
with that name, or nil if there is none.
*/
func Find(features []Feature, name string) Feature {
	for _, f := range features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}
