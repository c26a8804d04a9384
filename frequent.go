/*
Package subgroups implements the SDMap subgroup discovery algorithm: it
indexes a dataset of discrete features into an FP-tree and mines it with an
adapted FP-growth procedure to find conjunctions of selectors (subgroups)
whose distribution of a binary target is interesting according to a
quality measure.
*/
package subgroups

import (
	"context"

	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/antoniolopezmc/subgroups-sub001/tree"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// ErrMissingTarget is returned when the target attribute is not among the
	// features of a dataset, or when it is not a discrete one.
	ErrMissingTarget = errors.New("missing target feature")
	// ErrNonCategoricalFeature is returned when a feature that selectors should
	// be generated for is not discrete or holds a non-string value.
	ErrNonCategoricalFeature = errors.New("non-categorical feature")
	// ErrMissingValue is returned when a sample has no value for a feature.
	ErrMissingValue = errors.New("missing value")
)

/*
descriptive takes a slice of features and a target and checks that the
target is a discrete feature in the slice and every other feature is
discrete. It returns the non-target features in the same order.
*/
func descriptive(features []feature.Feature, target feature.Target) ([]*feature.DiscreteFeature, error) {
	tf := feature.Find(features, target.Attribute)
	if tf == nil {
		return nil, errors.Wrapf(ErrMissingTarget, "target attribute %q", target.Attribute)
	}
	if _, ok := tf.(*feature.DiscreteFeature); !ok {
		return nil, errors.Wrapf(ErrMissingTarget, "target attribute %q is not discrete", target.Attribute)
	}
	result := make([]*feature.DiscreteFeature, 0, len(features)-1)
	for _, f := range features {
		if f.Name() == target.Attribute {
			continue
		}
		df, ok := f.(*feature.DiscreteFeature)
		if !ok {
			return nil, errors.Wrapf(ErrNonCategoricalFeature, "feature %q", f.Name())
		}
		result = append(result, df)
	}
	return result, nil
}

/*
row takes a sample, the non-target features and the target and returns the
value of the sample for every feature, in the same order, and whether the
sample matches the target.
*/
func row(ctx context.Context, s dataset.Sample, features []*feature.DiscreteFeature, target feature.Target) ([]string, bool, error) {
	tv, err := stringValue(ctx, s, target.Attribute)
	if err != nil {
		return nil, false, err
	}
	values := make([]string, len(features))
	for i, f := range features {
		values[i], err = stringValue(ctx, s, f.Name())
		if err != nil {
			return nil, false, err
		}
	}
	return values, tv == target.Value, nil
}

func stringValue(ctx context.Context, s dataset.Sample, attribute string) (string, error) {
	v, err := s.ValueFor(ctx, attribute)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", errors.Wrapf(ErrMissingValue, "sample %v has no value for %q", s, attribute)
	}
	vs, ok := v.(string)
	if !ok {
		return "", errors.Wrapf(ErrNonCategoricalFeature, "sample %v has non-string value %v for %q", s, v, attribute)
	}
	return vs, nil
}

/*
GenerateFrequentSelectors takes a context, a dataset, its features, a target
and a threshold. It scans the dataset once counting, for every value of
every non-target feature, the samples that hold it and do or do not match
the target, and returns the equality selectors whose counts the threshold
considers frequent.

Features are visited in the order of the given slice and values of each
feature in ascending lexicographic order. Kept selectors get insertion
orders 0, 1, 2... in that visiting order.

The target must be a discrete feature in the given slice, otherwise an
error wrapping ErrMissingTarget is returned. A non-target feature that is
not discrete or a sample value that is not a string results in an error
wrapping ErrNonCategoricalFeature, and an undefined sample value in an
error wrapping ErrMissingValue.
*/
func GenerateFrequentSelectors(ctx context.Context, ds dataset.Dataset, features []feature.Feature, target feature.Target, th tree.Threshold) (tree.FrequentSelectors, error) {
	dfs, err := descriptive(features, target)
	if err != nil {
		return nil, err
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		return nil, err
	}
	counts := make([]map[string]tree.Counts, len(dfs))
	for i := range counts {
		counts[i] = make(map[string]tree.Counts)
	}
	for _, s := range samples {
		values, match, err := row(ctx, s, dfs, target)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			counts[i][v] = counts[i][v].Add(tree.Unit(match))
		}
	}
	fs := make(tree.FrequentSelectors)
	order := 0
	for i, f := range dfs {
		values := maps.Keys(counts[i])
		slices.Sort(values)
		for _, v := range values {
			c := counts[i][v]
			if !th.Frequent(c) {
				continue
			}
			fs[f.Selector(v)] = tree.Frequent{Counts: c, Order: order}
			order++
		}
	}
	return fs, nil
}

/*
BuildTree takes a context, a dataset, its features, the frequent selectors
obtained from it and a target and returns the FP-tree holding one path per
sample with its frequent selectors.
*/
func BuildTree(ctx context.Context, ds dataset.Dataset, features []feature.Feature, fs tree.FrequentSelectors, target feature.Target) (*tree.Tree, error) {
	dfs, err := descriptive(features, target)
	if err != nil {
		return nil, err
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		return nil, err
	}
	b := tree.NewBuilder(fs)
	path := make([]feature.Selector, len(dfs))
	for _, s := range samples {
		values, match, err := row(ctx, s, dfs, target)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			path[i] = dfs[i].Selector(v)
		}
		b.Add(path, tree.Unit(match))
	}
	return b.Tree(), nil
}
