package tree

import (
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"golang.org/x/exp/slices"
)

/*
Builder builds a Tree out of selector paths, keeping only the selectors
in a set of frequent selectors.
*/
type Builder struct {
	fs   FrequentSelectors
	tree *Tree
	path []feature.Selector
}

/*
NewBuilder takes the frequent selectors the tree will be built with and
returns a Builder for an empty tree.
*/
func NewBuilder(fs FrequentSelectors) *Builder {
	return &Builder{fs: fs, tree: newTree()}
}

/*
Add takes a path of selectors and a weight. It drops from the path the
selectors that are not frequent, sorts the rest by descending number of
covered samples (according to the frequent selectors of the builder, not
the tree) with ties broken by ascending insertion order, and inserts the
result into the tree adding the weight to the counters of every node on it.

The given path is not modified.
*/
func (b *Builder) Add(path []feature.Selector, weight Counts) {
	b.path = b.path[:0]
	for _, s := range path {
		if _, ok := b.fs[s]; ok {
			b.path = append(b.path, s)
		}
	}
	if len(b.path) == 0 {
		return
	}
	slices.SortStableFunc(b.path, b.fs.before)
	b.tree.insert(b.path, weight, b.fs)
}

/*
Tree computes the sorted header table and returns the built tree. The
builder must not be used afterwards.
*/
func (b *Builder) Tree() *Tree {
	t := b.tree
	t.sortHeader()
	b.tree = nil
	return t
}
