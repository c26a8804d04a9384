package dataset

import (
	"context"
	"fmt"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
)

/*
Sample represents a row of a dataset.

Its ValueFor method returns the value of the sample corresponding to the
attribute passed as parameter, or nil if it is undefined.
*/
type Sample = feature.Sample

type sample struct {
	featureValues map[string]interface{}
}

/*
NewSample takes a map of feature string names to values and returns a sample.
*/
func NewSample(featureValues map[string]interface{}) Sample {
	return &sample{featureValues}
}

func (s *sample) ValueFor(_ context.Context, attribute string) (interface{}, error) {
	return s.featureValues[attribute], nil
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v]", s.featureValues)
}
