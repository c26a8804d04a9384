/*
Package yaml provides methods to parse feature.Feature specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadFeatures takes a slice of bytes with feature metadata in YML and
returns a slice of features parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and either a
string value of 'continuous' for continuous features, a string value of
'discrete' for discrete features accepting any value, or a list of valid values
for discrete features.

Features are returned in the order they are declared in the document, which is
the column order of the dataset.
*/
func ReadFeatures(md []byte) ([]feature.Feature, error) {
	order := struct {
		Features yaml.MapSlice
	}{}
	err := yaml.Unmarshal(md, &order)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if order.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	metadata := struct {
		Features map[string]declaration
	}{}
	err = yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	features := make([]feature.Feature, 0, len(order.Features))
	seen := make(map[string]bool, len(order.Features))
	for _, item := range order.Features {
		fn := fmt.Sprintf("%v", item.Key)
		if seen[fn] {
			return nil, fmt.Errorf("feature %s declared more than once", fn)
		}
		seen[fn] = true
		d := metadata.Features[fn]
		switch {
		case d.values != nil:
			features = append(features, feature.NewDiscreteFeature(fn, d.values))
		case d.kind == "continuous":
			features = append(features, feature.NewContinuousFeature(fn))
		case d.kind == "discrete":
			features = append(features, feature.NewDiscreteFeature(fn, nil))
		default:
			return nil, fmt.Errorf("invalid declaration '%s' for feature %s", d.kind, fn)
		}
	}
	return features, nil
}

// declaration is either a kind string or a list of values. Values are
// decoded as strings so that YAML 1.1 booleans such as y or no keep their
// literal spelling.
type declaration struct {
	kind   string
	values []string
}

func (d *declaration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var values []string
	if err := unmarshal(&values); err == nil {
		if values == nil {
			values = []string{}
		}
		d.values = values
		return nil
	}
	var kind string
	if err := unmarshal(&kind); err != nil {
		return fmt.Errorf("invalid feature declaration: %v", err)
	}
	d.kind = kind
	return nil
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and uses
ReadFeatures to parse it and return a slice of parsed features or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadFeaturesFromFile(filepath string) ([]feature.Feature, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return features, err
}
