package subgroups

import (
	"context"
	"fmt"
	"testing"

	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/antoniolopezmc/subgroups-sub001/tree"
	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	a1    = feature.NewDiscreteFeature("a1", []string{"a", "b", "c"})
	a2    = feature.NewDiscreteFeature("a2", []string{"q", "s"})
	a3    = feature.NewDiscreteFeature("a3", []string{"f", "g", "h", "k"})
	class = feature.NewDiscreteFeature("class", []string{"n", "y"})

	features = []feature.Feature{a1, a2, a3, class}
	target   = feature.NewTarget("class", "y")
)

func sample(v1, v2, v3, c string) dataset.Sample {
	return dataset.NewSample(map[string]interface{}{"a1": v1, "a2": v2, "a3": v3, "class": c})
}

func scenario() dataset.Dataset {
	return dataset.New([]dataset.Sample{
		sample("a", "q", "f", "n"),
		sample("b", "q", "g", "y"),
		sample("c", "s", "h", "n"),
		sample("c", "q", "k", "y"),
	})
}

func sel(attribute, value string) feature.Selector {
	return feature.NewSelector(attribute, feature.Equal, value)
}

// mine runs the whole pipeline on ds and returns the counts of every
// emitted pattern by key, failing on duplicates.
func mine(t *testing.T, ds dataset.Dataset, th tree.Threshold) map[string]tree.Counts {
	ctx := context.Background()
	fs, err := GenerateFrequentSelectors(ctx, ds, features, target, th)
	require.NoError(t, err)
	tr, err := BuildTree(ctx, ds, features, fs, target)
	require.NoError(t, err)
	totals, err := totalCounts(ctx, ds, target)
	require.NoError(t, err)
	result := map[string]tree.Counts{}
	err = Mine(tr, nil, th, totals, HandlerFunc(func(p Pattern, c, tot tree.Counts) error {
		_, dup := result[p.Key()]
		assert.False(t, dup, "duplicate pattern %v", p)
		assert.Equal(t, totals, tot)
		result[p.Key()] = c
		return nil
	}))
	require.NoError(t, err)
	return result
}

// bruteForce enumerates every conjunction of the selectors of every sample,
// counts it scanning ds and keeps it if th considers it frequent.
func bruteForce(t *testing.T, ds dataset.Dataset, th tree.Threshold) map[string]tree.Counts {
	ctx := context.Background()
	samples, err := ds.Samples(ctx)
	require.NoError(t, err)
	result := map[string]tree.Counts{}
	for _, s := range samples {
		var row []feature.Selector
		for _, f := range []*feature.DiscreteFeature{a1, a2, a3} {
			v, err := s.ValueFor(ctx, f.Name())
			require.NoError(t, err)
			row = append(row, f.Selector(v.(string)))
		}
		for mask := 1; mask < 1<<len(row); mask++ {
			var p Pattern
			for i, rs := range row {
				if mask&(1<<i) != 0 {
					p = append(p, rs)
				}
			}
			var c tree.Counts
			for _, other := range samples {
				covered, err := p.Covers(ctx, other)
				require.NoError(t, err)
				if !covered {
					continue
				}
				match, err := target.MatchedBy(ctx, other)
				require.NoError(t, err)
				c = c.Add(tree.Unit(match))
			}
			if th.Frequent(c) {
				result[p.Key()] = c
			}
		}
	}
	return result
}

func keys(m map[string]tree.Counts) mapset.Set {
	result := mapset.NewSet()
	for k := range m {
		result.Add(k)
	}
	return result
}

func TestMineScenarioWithoutPruning(t *testing.T) {
	result := mine(t, scenario(), tree.CombinedThreshold{MinN: 0})
	assert.Len(t, result, 25)
	assert.Equal(t, tree.Counts{TP: 1}, result[Pattern{sel("a1", "b")}.Key()])
	assert.Equal(t, tree.Counts{TP: 1}, result[Pattern{sel("a3", "g"), sel("a1", "b")}.Key()])
	assert.Equal(t, tree.Counts{TP: 2, FP: 1}, result[Pattern{sel("a2", "q")}.Key()])
	assert.Equal(t, tree.Counts{TP: 1}, result[Pattern{sel("a1", "c"), sel("a2", "q"), sel("a3", "k")}.Key()])
	assert.Equal(t, tree.Counts{FP: 1}, result[Pattern{sel("a1", "c"), sel("a2", "s"), sel("a3", "h")}.Key()])
}

func TestMineScenarioWithMinimumN(t *testing.T) {
	result := mine(t, scenario(), tree.CombinedThreshold{MinN: 2})
	assert.Equal(t, map[string]tree.Counts{
		Pattern{sel("a1", "c")}.Key(): {TP: 1, FP: 1},
		Pattern{sel("a2", "q")}.Key(): {TP: 2, FP: 1},
	}, result)
}

func TestMineIsComplete(t *testing.T) {
	for _, th := range []tree.Threshold{
		tree.CombinedThreshold{MinN: 0},
		tree.CombinedThreshold{MinN: 1},
		tree.CombinedThreshold{MinN: 2},
		tree.CombinedThreshold{MinN: 4},
		tree.SeparateThreshold{MinTP: 0, MinFP: 0},
		tree.SeparateThreshold{MinTP: 1, MinFP: 0},
		tree.SeparateThreshold{MinTP: 0, MinFP: 1},
		tree.SeparateThreshold{MinTP: 1, MinFP: 1},
	} {
		t.Run(fmt.Sprintf("%#v", th), func(t *testing.T) {
			expected := bruteForce(t, scenario(), th)
			result := mine(t, scenario(), th)
			assert.True(t, keys(expected).Equal(keys(result)))
			assert.Equal(t, expected, result)
		})
	}
}

func TestMineIsCompleteOnWiderDataset(t *testing.T) {
	ds := dataset.New([]dataset.Sample{
		sample("a", "q", "f", "n"),
		sample("a", "q", "f", "y"),
		sample("a", "q", "g", "y"),
		sample("b", "q", "g", "y"),
		sample("b", "s", "g", "n"),
		sample("c", "s", "h", "n"),
		sample("c", "q", "h", "y"),
		sample("c", "q", "k", "y"),
		sample("a", "s", "k", "n"),
		sample("a", "q", "f", "y"),
	})
	for _, th := range []tree.Threshold{
		tree.CombinedThreshold{MinN: 0},
		tree.CombinedThreshold{MinN: 2},
		tree.CombinedThreshold{MinN: 3},
		tree.SeparateThreshold{MinTP: 1, MinFP: 1},
		tree.SeparateThreshold{MinTP: 2, MinFP: 0},
	} {
		t.Run(fmt.Sprintf("%#v", th), func(t *testing.T) {
			assert.Equal(t, bruteForce(t, ds, th), mine(t, ds, th))
		})
	}
}

func TestSeparateThresholdSelectsSubsetOfCombined(t *testing.T) {
	for _, pair := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 1}} {
		separate := keys(mine(t, scenario(), tree.SeparateThreshold{MinTP: pair[0], MinFP: pair[1]}))
		combined := keys(mine(t, scenario(), tree.CombinedThreshold{MinN: pair[0] + pair[1]}))
		assert.True(t, separate.IsSubset(combined), "%v", pair)
	}
}

func TestMineStopsOnHandlerError(t *testing.T) {
	ctx := context.Background()
	th := tree.CombinedThreshold{MinN: 0}
	fs, err := GenerateFrequentSelectors(ctx, scenario(), features, target, th)
	require.NoError(t, err)
	tr, err := BuildTree(ctx, scenario(), features, fs, target)
	require.NoError(t, err)
	boom := errors.New("boom")
	calls := 0
	err = Mine(tr, nil, th, tree.Counts{TP: 2, FP: 2}, HandlerFunc(func(Pattern, tree.Counts, tree.Counts) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	}))
	assert.Equal(t, boom, err)
	assert.Equal(t, 3, calls)
}

func TestMineAppendsAlpha(t *testing.T) {
	fs := tree.FrequentSelectors{sel("a1", "b"): {Counts: tree.Counts{TP: 1}, Order: 0}}
	b := tree.NewBuilder(fs)
	b.Add([]feature.Selector{sel("a1", "b")}, tree.Counts{TP: 1})
	var patterns []Pattern
	alpha := Pattern{sel("a3", "g")}
	err := Mine(b.Tree(), alpha, tree.CombinedThreshold{}, tree.Counts{TP: 2, FP: 2}, HandlerFunc(func(p Pattern, _, _ tree.Counts) error {
		patterns = append(patterns, p)
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []Pattern{{sel("a1", "b"), sel("a3", "g")}}, patterns)
	assert.Equal(t, Pattern{sel("a3", "g")}, alpha)
}

func TestEmptyDatasetMinesNothing(t *testing.T) {
	result := mine(t, dataset.New(nil), tree.CombinedThreshold{MinN: 0})
	assert.Empty(t, result)
	result = mine(t, scenario(), tree.CombinedThreshold{MinN: 5})
	assert.Empty(t, result)
}

func TestGenerateFrequentSelectors(t *testing.T) {
	ctx := context.Background()
	fs, err := GenerateFrequentSelectors(ctx, scenario(), features, target, tree.CombinedThreshold{MinN: 0})
	require.NoError(t, err)
	assert.Len(t, fs, 9)
	assert.Equal(t, tree.Frequent{Counts: tree.Counts{TP: 1, FP: 1}, Order: 2}, fs[sel("a1", "c")])
	assert.Equal(t, tree.Frequent{Counts: tree.Counts{FP: 1}, Order: 7}, fs[sel("a3", "h")])

	fs, err = GenerateFrequentSelectors(ctx, scenario(), features, target, tree.CombinedThreshold{MinN: 2})
	require.NoError(t, err)
	assert.Equal(t, tree.FrequentSelectors{
		sel("a1", "c"): {Counts: tree.Counts{TP: 1, FP: 1}, Order: 0},
		sel("a2", "q"): {Counts: tree.Counts{TP: 2, FP: 1}, Order: 1},
	}, fs)
}

func TestGenerateFrequentSelectorsChecksShape(t *testing.T) {
	ctx := context.Background()
	th := tree.CombinedThreshold{MinN: 0}

	_, err := GenerateFrequentSelectors(ctx, scenario(), []feature.Feature{a1, a2, a3}, target, th)
	assert.True(t, errors.Is(err, ErrMissingTarget))

	_, err = GenerateFrequentSelectors(ctx, scenario(), []feature.Feature{a1, a2, a3, feature.NewContinuousFeature("class")}, target, th)
	assert.True(t, errors.Is(err, ErrMissingTarget))

	_, err = GenerateFrequentSelectors(ctx, scenario(), []feature.Feature{a1, a2, feature.NewContinuousFeature("a3"), class}, target, th)
	assert.True(t, errors.Is(err, ErrNonCategoricalFeature))

	ds := dataset.New([]dataset.Sample{
		sample("a", "q", "f", "n"),
		dataset.NewSample(map[string]interface{}{"a1": "b", "a2": "q", "class": "y"}),
	})
	_, err = GenerateFrequentSelectors(ctx, ds, features, target, th)
	assert.True(t, errors.Is(err, ErrMissingValue))

	ds = dataset.New([]dataset.Sample{
		dataset.NewSample(map[string]interface{}{"a1": "b", "a2": "q", "a3": 3.5, "class": "y"}),
	})
	_, err = GenerateFrequentSelectors(ctx, ds, features, target, th)
	assert.True(t, errors.Is(err, ErrNonCategoricalFeature))
}

func TestBuildTreeKeepsCounts(t *testing.T) {
	ctx := context.Background()
	ds := scenario()
	fs, err := GenerateFrequentSelectors(ctx, ds, features, target, tree.CombinedThreshold{MinN: 0})
	require.NoError(t, err)
	tr, err := BuildTree(ctx, ds, features, fs, target)
	require.NoError(t, err)
	assert.Equal(t, 10, tr.Size())
	for s, f := range fs {
		c, ok := tr.Header(s)
		require.True(t, ok)
		assert.Equal(t, f.Counts, c, "%v", s)
	}
}

func TestCombinations(t *testing.T) {
	var result [][]int
	err := combinations(4, 2, func(indexes []int) error {
		result = append(result, append([]int(nil), indexes...))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, result)

	count := 0
	require.NoError(t, combinations(3, 3, func([]int) error {
		count++
		return nil
	}))
	assert.Equal(t, 1, count)
}

func TestPattern(t *testing.T) {
	p := Pattern{sel("a3", "g"), sel("a1", "b")}
	assert.Equal(t, "[a1 = 'b', a3 = 'g']", p.String())
	assert.Equal(t, p.Key(), Pattern{sel("a1", "b"), sel("a3", "g")}.Key())
	assert.NotEqual(t, p.Key(), Pattern{sel("a1", "b")}.Key())
	assert.Equal(t, Pattern{sel("a3", "g"), sel("a1", "b")}, p)
	assert.Equal(t, "[]", Pattern(nil).String())

	ctx := context.Background()
	ok, err := p.Covers(ctx, sample("b", "q", "g", "y"))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = p.Covers(ctx, sample("b", "q", "h", "y"))
	require.NoError(t, err)
	assert.False(t, ok)
}
