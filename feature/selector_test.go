package feature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSample map[string]interface{}

func (ms mapSample) ValueFor(_ context.Context, attribute string) (interface{}, error) {
	return ms[attribute], nil
}

func TestSelectorSatisfiedBy(t *testing.T) {
	ctx := context.Background()
	s := mapSample{"a1": "b", "age": 3.5}
	cases := []struct {
		selector Selector
		expected bool
	}{
		{NewSelector("a1", Equal, "b"), true},
		{NewSelector("a1", Equal, "c"), false},
		{NewSelector("a1", NotEqual, "c"), true},
		{NewSelector("a1", NotEqual, "b"), false},
		{NewSelector("a2", Equal, "q"), false},
		{NewSelector("a2", NotEqual, "q"), false},
		{NewSelector("age", Equal, "3.5"), false},
	}
	for _, c := range cases {
		ok, err := c.selector.SatisfiedBy(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, c.expected, ok, "%v", c.selector)
	}
	_, err := NewSelector("a1", Operator("<"), "b").SatisfiedBy(ctx, s)
	assert.Error(t, err)
}

func TestSelectorIdentity(t *testing.T) {
	m := map[Selector]int{}
	m[NewSelector("a1", Equal, "b")]++
	m[NewSelector("a1", Equal, "b")]++
	m[NewSelector("a1", NotEqual, "b")]++
	assert.Len(t, m, 2)
	assert.Equal(t, 2, m[Selector{"a1", Equal, "b"}])
}

func TestSelectorLess(t *testing.T) {
	a := NewSelector("a1", Equal, "b")
	b := NewSelector("a1", Equal, "c")
	c := NewSelector("a2", Equal, "a")
	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.False(t, a.Less(a))
	assert.True(t, a.Less(NewSelector("a1", NotEqual, "b")))
	assert.False(t, NewSelector("a1", NotEqual, "b").Less(a))
	assert.True(t, NewSelector("a1", NotEqual, "b").Less(NewSelector("a1", Operator("<"), "b")))
}

func TestParseSelector(t *testing.T) {
	s, err := ParseSelector("class=y")
	require.NoError(t, err)
	assert.Equal(t, NewSelector("class", Equal, "y"), s)
	s, err = ParseSelector("a1 != 'b'")
	require.NoError(t, err)
	assert.Equal(t, NewSelector("a1", NotEqual, "b"), s)
	assert.Equal(t, "a1 != 'b'", s.String())
	s, err = ParseSelector("a=x!=y")
	require.NoError(t, err)
	assert.Equal(t, NewSelector("a", Equal, "x!=y"), s)
	s, err = ParseSelector("a!=x=y")
	require.NoError(t, err)
	assert.Equal(t, NewSelector("a", NotEqual, "x=y"), s)
	_, err = ParseSelector("=y")
	assert.Error(t, err)
	_, err = ParseSelector("class")
	assert.Error(t, err)
}

func TestTarget(t *testing.T) {
	ctx := context.Background()
	target, err := ParseTarget("class=y")
	require.NoError(t, err)
	assert.Equal(t, "class = 'y'", target.String())
	ok, err := target.MatchedBy(ctx, mapSample{"class": "y"})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = target.MatchedBy(ctx, mapSample{"class": "n"})
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = ParseTarget("class!=y")
	assert.Error(t, err)
}

func TestDiscreteFeatureValid(t *testing.T) {
	f := NewDiscreteFeature("a1", []string{"c", "a", "b"})
	ok, err := f.Valid("a")
	assert.True(t, ok)
	assert.NoError(t, err)
	ok, err = f.Valid("z")
	assert.False(t, ok)
	assert.Error(t, err)
	ok, _ = f.Valid(1.0)
	assert.False(t, ok)
	ok, _ = f.Valid(nil)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, f.AvailableValues())
	assert.Equal(t, NewSelector("a1", Equal, "b"), f.Selector("b"))

	open := NewDiscreteFeature("free", nil)
	ok, err = open.Valid("anything")
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestFind(t *testing.T) {
	features := []Feature{NewDiscreteFeature("a1", nil), NewContinuousFeature("age")}
	assert.Equal(t, "age", Find(features, "age").Name())
	assert.Nil(t, Find(features, "a2"))
}
