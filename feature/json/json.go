/*
Package json provides a way to encode selectors and selector lists into
JSON and decode them back, checking them against a slice of features.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
)

/*
SelectorEncodeDecoder is an interface for objects
that allow encoding selectors into slices of
bytes and decoding them back to selectors.
*/
type SelectorEncodeDecoder interface {

	//Encode receives a feature.Selector
	//and returns a slice of bytes with the selector
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(feature.Selector) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a feature.Selector decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (feature.Selector, error)

	//EncodeList and DecodeList do the same for
	//a list of selectors, that is, a pattern.
	EncodeList([]feature.Selector) ([]byte, error)
	DecodeList([]byte) ([]feature.Selector, error)
}

type jsonSelectorEncodeDecoder []feature.Feature

// Selector is the JSON representation of a feature.Selector
type Selector struct {
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
}

// NewSelectorEncodeDecoder takes a slice of feature.Feature and returns a
// SelectorEncodeDecoder that marshals and unmarshals selectors into/from
// slices of bytes as JSON objects with "attribute", "operator" and "value"
// properties. Decoding fails for selectors on attributes that are not
// discrete features in the slice, or whose value the feature does not
// accept. A nil slice of features disables those checks.
func NewSelectorEncodeDecoder(features []feature.Feature) SelectorEncodeDecoder {
	return jsonSelectorEncodeDecoder(features)
}

// FromSelector returns the JSON representation of s
func FromSelector(s feature.Selector) Selector {
	return Selector{s.Attribute, string(s.Operator), s.Value}
}

// FromSelectors returns the JSON representation of a list of selectors
func FromSelectors(ss []feature.Selector) []Selector {
	result := make([]Selector, 0, len(ss))
	for _, s := range ss {
		result = append(result, FromSelector(s))
	}
	return result
}

func (jsed jsonSelectorEncodeDecoder) Encode(s feature.Selector) ([]byte, error) {
	return json.Marshal(FromSelector(s))
}

func (jsed jsonSelectorEncodeDecoder) Decode(data []byte) (feature.Selector, error) {
	js := &Selector{}
	err := json.Unmarshal(data, js)
	if err != nil {
		return feature.Selector{}, err
	}
	return js.selector(jsed)
}

func (jsed jsonSelectorEncodeDecoder) EncodeList(ss []feature.Selector) ([]byte, error) {
	return json.Marshal(FromSelectors(ss))
}

func (jsed jsonSelectorEncodeDecoder) DecodeList(data []byte) ([]feature.Selector, error) {
	var jss []Selector
	err := json.Unmarshal(data, &jss)
	if err != nil {
		return nil, err
	}
	result := make([]feature.Selector, 0, len(jss))
	for i := range jss {
		s, err := jss[i].selector(jsed)
		if err != nil {
			return nil, fmt.Errorf("decoding selector %d: %v", i, err)
		}
		result = append(result, s)
	}
	return result, nil
}

func (js *Selector) selector(features []feature.Feature) (feature.Selector, error) {
	op := feature.Operator(js.Operator)
	if op != feature.Equal && op != feature.NotEqual {
		return feature.Selector{}, fmt.Errorf("unknown selector operator '%s'", js.Operator)
	}
	s := feature.NewSelector(js.Attribute, op, js.Value)
	if features == nil {
		return s, nil
	}
	f := feature.Find(features, js.Attribute)
	if f == nil {
		return feature.Selector{}, fmt.Errorf("unknown feature '%s'", js.Attribute)
	}
	df, ok := f.(*feature.DiscreteFeature)
	if !ok {
		return feature.Selector{}, fmt.Errorf("expected discrete feature for selector but found %T feature %v", f, f.Name())
	}
	if ok, err := df.Valid(js.Value); !ok {
		return feature.Selector{}, err
	}
	return s, nil
}
