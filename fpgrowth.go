package subgroups

import (
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/antoniolopezmc/subgroups-sub001/tree"
)

/*
Handler is an interface wrapping the Handle method, that receives every
pattern emitted while mining a tree.

Handle takes a pattern, its counts and the counts of the whole dataset.
The pattern is not reused by the miner and may be retained. Returning an
error aborts mining and makes Mine return it.
*/
type Handler interface {
	Handle(p Pattern, c, totals tree.Counts) error
}

/*
HandlerFunc wraps a function with the Handle method signature to implement
the Handler interface.
*/
type HandlerFunc func(p Pattern, c, totals tree.Counts) error

// Handle invokes the HandlerFunc with the given parameters.
func (hf HandlerFunc) Handle(p Pattern, c, totals tree.Counts) error {
	return hf(p, c, totals)
}

/*
Mine takes an FP-tree, the pattern it is conditioned on (nil for a tree
built from a dataset), a threshold, the counts of the whole dataset and a
handler, and emits to the handler every pattern present in the tree
extended with alpha, together with its counts.

When the tree is a single path, every non-empty combination of its header
selectors is emitted, by size and then in sorted header order, with the
counts of its least frequent selector. Otherwise every selector in sorted
header order is emitted extended with alpha, and the conditional tree of
the selector, built with the given threshold, is mined depth first.
*/
func Mine(t *tree.Tree, alpha Pattern, th tree.Threshold, totals tree.Counts, h Handler) error {
	if t.SinglePath() {
		return mineSinglePath(t, alpha, totals, h)
	}
	for _, ai := range t.SortedHeader() {
		c, _ := t.Header(ai)
		beta := alpha.join(ai)
		if err := h.Handle(beta, c, totals); err != nil {
			return err
		}
		ct := t.Conditional(ai, th)
		if ct.Empty() {
			continue
		}
		if err := Mine(ct, beta, th, totals, h); err != nil {
			return err
		}
	}
	return nil
}

func mineSinglePath(t *tree.Tree, alpha Pattern, totals tree.Counts, h Handler) error {
	header := t.SortedHeader()
	for size := 1; size <= len(header); size++ {
		err := combinations(len(header), size, func(indexes []int) error {
			beta := make([]feature.Selector, len(indexes))
			for i, index := range indexes {
				beta[i] = header[index]
			}
			c, _ := t.Header(beta[0])
			return h.Handle(alpha.join(beta...), c, totals)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

/*
combinations calls f with every combination of size indexes taken from
[0, n), each one in ascending order and all of them in lexicographic order.
The slice passed to f is reused between calls.
*/
func combinations(n, size int, f func([]int) error) error {
	indexes := make([]int, size)
	for i := range indexes {
		indexes[i] = i
	}
	for {
		if err := f(indexes); err != nil {
			return err
		}
		i := size - 1
		for i >= 0 && indexes[i] == n-size+i {
			i--
		}
		if i < 0 {
			return nil
		}
		indexes[i]++
		for j := i + 1; j < size; j++ {
			indexes[j] = indexes[j-1] + 1
		}
	}
}
