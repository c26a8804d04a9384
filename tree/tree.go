/*
Package tree provides the frequent-pattern tree (FP-tree) used to mine
subgroups: a trie of selector paths, one per sample, sharing common
prefixes, with target counters on every node and a header table that
links together all the nodes holding the same selector.
*/
package tree

import (
	"fmt"
	"strings"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	rootIndex = 0
	none      = -1
)

/*
node is an element of the arena of a Tree. Nodes refer to each other
by their index on the arena: parent is the index of the parent node
(none for the root), children maps the selector of every child to its
index and next is the index of the following node holding the same
selector in the header table chain (none for the last one).
*/
type node struct {
	selector feature.Selector
	counts   Counts
	parent   int
	children map[feature.Selector]int
	next     int
}

/*
headerEntry holds the aggregated counts over all nodes of a tree holding
a selector, the insertion order of the selector and the indexes of the
first and last nodes in the chain linking them.
*/
type headerEntry struct {
	counts Counts
	order  int
	first  int
	last   int
}

/*
Tree is an FP-tree. Its nodes live in an arena owned by the tree: they
are never removed, and dropping the tree drops all of them.

A Tree is built with a Builder and is immutable afterwards.
*/
type Tree struct {
	nodes  []node
	header map[feature.Selector]*headerEntry
	sorted []feature.Selector
}

func newTree() *Tree {
	return &Tree{
		nodes:  []node{{parent: none, next: none}},
		header: make(map[feature.Selector]*headerEntry),
	}
}

/*
Empty returns whether the tree has no node besides its root.
*/
func (t *Tree) Empty() bool {
	return len(t.nodes[rootIndex].children) == 0
}

/*
SinglePath returns whether no node in the tree, root included, has more
than one child. An empty tree is a single path.
*/
func (t *Tree) SinglePath() bool {
	current := &t.nodes[rootIndex]
	for len(current.children) == 1 {
		for _, child := range current.children {
			current = &t.nodes[child]
		}
	}
	return len(current.children) == 0
}

/*
sortHeader computes the sorted header table of the tree.
*/
func (t *Tree) sortHeader() {
	t.sorted = maps.Keys(t.header)
	slices.SortFunc(t.sorted, func(a, b feature.Selector) bool {
		ha, hb := t.header[a], t.header[b]
		if ha.counts.N() != hb.counts.N() {
			return ha.counts.N() < hb.counts.N()
		}
		return ha.order < hb.order
	})
}

/*
SortedHeader returns the selectors in the header table of the tree sorted by
ascending number of covered samples, ties broken by ascending insertion
order. The returned slice must not be modified.
*/
func (t *Tree) SortedHeader() []feature.Selector {
	return t.sorted
}

/*
Header takes a selector and returns the counts aggregated over all nodes
holding it and true, or zero counts and false if the selector is not in
the tree.
*/
func (t *Tree) Header(s feature.Selector) (Counts, bool) {
	he, ok := t.header[s]
	if !ok {
		return Counts{}, false
	}
	return he.counts, true
}

/*
Order takes a selector and returns its insertion order in the tree and true,
or 0 and false if the selector is not in the tree.
*/
func (t *Tree) Order(s feature.Selector) (int, bool) {
	he, ok := t.header[s]
	if !ok {
		return 0, false
	}
	return he.order, true
}

/*
Size returns the number of nodes of the tree, not counting the root.
*/
func (t *Tree) Size() int {
	return len(t.nodes) - 1
}

/*
Chain takes a selector and returns the counts of every node holding it, in
the order they were linked into the header table chain.
*/
func (t *Tree) Chain(s feature.Selector) []Counts {
	he, ok := t.header[s]
	if !ok {
		return nil
	}
	var result []Counts
	for i := he.first; i != none; i = t.nodes[i].next {
		result = append(result, t.nodes[i].counts)
	}
	return result
}

/*
Paths returns a line for every leaf of the tree with the selectors and
counts of the nodes on the path from the root to it.
*/
func (t *Tree) Paths() []string {
	var result []string
	var walk func(i int, prefix string)
	walk = func(i int, prefix string) {
		n := &t.nodes[i]
		if i != rootIndex {
			prefix = fmt.Sprintf("%s[%v %v]", prefix, n.selector, n.counts)
		}
		if len(n.children) == 0 {
			if i != rootIndex {
				result = append(result, prefix)
			}
			return
		}
		for _, s := range t.childrenInOrder(n) {
			walk(n.children[s], prefix)
		}
	}
	walk(rootIndex, "")
	return result
}

func (t *Tree) String() string {
	return strings.Join(t.Paths(), "\n")
}

func (t *Tree) childrenInOrder(n *node) []feature.Selector {
	result := maps.Keys(n.children)
	slices.SortFunc(result, feature.Selector.Less)
	return result
}

/*
insert adds a path of selectors below the root of the tree, adding weight
to the counters of every node on it and to the header table. Selectors
seen for the first time get their insertion order from fs.
*/
func (t *Tree) insert(path []feature.Selector, weight Counts, fs FrequentSelectors) {
	current := rootIndex
	for _, s := range path {
		he, ok := t.header[s]
		if !ok {
			he = &headerEntry{order: fs[s].Order, first: none, last: none}
			t.header[s] = he
		}
		he.counts = he.counts.Add(weight)
		child, ok := t.nodes[current].children[s]
		if ok {
			t.nodes[child].counts = t.nodes[child].counts.Add(weight)
			current = child
			continue
		}
		child = len(t.nodes)
		t.nodes = append(t.nodes, node{
			selector: s,
			counts:   weight,
			parent:   current,
			next:     none,
		})
		if t.nodes[current].children == nil {
			t.nodes[current].children = make(map[feature.Selector]int)
		}
		t.nodes[current].children[s] = child
		if he.first == none {
			he.first = child
		} else {
			t.nodes[he.last].next = child
		}
		he.last = child
		current = child
	}
}
