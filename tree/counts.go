package tree

import (
	"fmt"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
)

/*
Counts is a pair of sample counts: TP counts samples that match both a
pattern and the target, FP counts samples that match the pattern but not
the target. When describing a whole dataset, TP and FP are the number of
samples that do and do not match the target.
*/
type Counts struct {
	TP int
	FP int
}

/*
Unit returns the counts contributed by a single sample, depending on
whether it matches the target.
*/
func Unit(matchesTarget bool) Counts {
	if matchesTarget {
		return Counts{TP: 1}
	}
	return Counts{FP: 1}
}

// N returns TP+FP, the number of samples covered.
func (c Counts) N() int {
	return c.TP + c.FP
}

// Add returns the componentwise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{c.TP + o.TP, c.FP + o.FP}
}

func (c Counts) String() string {
	return fmt.Sprintf("(tp=%d, fp=%d)", c.TP, c.FP)
}

/*
Frequent holds the counts of a selector that survived pruning together with
its insertion order, which breaks ties between selectors with the same
number of covered samples.
*/
type Frequent struct {
	Counts
	Order int
}

/*
FrequentSelectors maps every selector that survived pruning to its counts
and insertion order.
*/
type FrequentSelectors map[feature.Selector]Frequent

/*
before reports whether selector a must precede selector b on a path
inserted into a tree: more frequent first, earlier insertion order on ties.
Both selectors must belong to fs.
*/
func (fs FrequentSelectors) before(a, b feature.Selector) bool {
	fa, fb := fs[a], fs[b]
	if fa.N() != fb.N() {
		return fa.N() > fb.N()
	}
	return fa.Order < fb.Order
}
