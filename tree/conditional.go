package tree

import (
	"github.com/antoniolopezmc/subgroups-sub001/feature"
)

// base is an entry of a conditional pattern base: the selectors on the way
// from a node up to the root, weighted with the counts of the node.
type base struct {
	path   []feature.Selector
	weight Counts
}

/*
Conditional takes a selector and a threshold and returns the conditional
tree of the selector: the tree built from the paths that lead from the
root to every node holding the selector, weighted with the counts of that
node and keeping only the selectors that the threshold considers frequent
on those weighted paths.

If the selector is not in the tree, the returned tree is empty.

Insertion orders in the conditional tree are assigned in the order
selectors are first met walking up the paths, starting at -1 and
decreasing, so they never collide with the non-negative orders assigned
when a tree is built from a dataset.
*/
func (t *Tree) Conditional(s feature.Selector, th Threshold) *Tree {
	he, ok := t.header[s]
	if !ok {
		return newTree()
	}
	var bases []base
	local := make(FrequentSelectors)
	order := -1
	for i := he.first; i != none; i = t.nodes[i].next {
		n := &t.nodes[i]
		var path []feature.Selector
		for p := n.parent; p != rootIndex; p = t.nodes[p].parent {
			ps := t.nodes[p].selector
			path = append(path, ps)
			f, seen := local[ps]
			if !seen {
				f.Order = order
				order--
			}
			f.Counts = f.Counts.Add(n.counts)
			local[ps] = f
		}
		bases = append(bases, base{path, n.counts})
	}
	for ls, f := range local {
		if !th.Frequent(f.Counts) {
			delete(local, ls)
		}
	}
	b := NewBuilder(local)
	for _, cb := range bases {
		b.Add(cb.path, cb.weight)
	}
	return b.Tree()
}
