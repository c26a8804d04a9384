/*
Package reporter provides implementations of subgroups.Reporter that
collect, print or forward the subgroups selected by SDMap.
*/
package reporter

import (
	subgroups "github.com/antoniolopezmc/subgroups-sub001"
	"golang.org/x/exp/slices"
)

/*
Collector is a reporter that keeps every reported subgroup in memory.
*/
type Collector struct {
	Subgroups []*subgroups.Subgroup
}

// Report appends the subgroup to the collected ones.
func (c *Collector) Report(sg *subgroups.Subgroup) error {
	c.Subgroups = append(c.Subgroups, sg)
	return nil
}

// Close does nothing.
func (c *Collector) Close() error {
	return nil
}

type chain []subgroups.Reporter

/*
Chain takes a list of reporters and returns a reporter that reports every
subgroup to all of them in order, stopping at the first error.
Closing it closes all of them and returns the first error found.
*/
func Chain(reporters ...subgroups.Reporter) subgroups.Reporter {
	return chain(reporters)
}

func (c chain) Report(sg *subgroups.Subgroup) error {
	for _, r := range c {
		if err := r.Report(sg); err != nil {
			return err
		}
	}
	return nil
}

func (c chain) Close() error {
	var result error
	for _, r := range c {
		if err := r.Close(); err != nil && result == nil {
			result = err
		}
	}
	return result
}

type top struct {
	k         int
	subgroups []*subgroups.Subgroup
	reporter  subgroups.Reporter
}

/*
Top takes a number k and a reporter and returns a reporter that keeps the
k subgroups with the highest quality, earlier ones first on ties. Closing
it reports them to the given reporter by descending quality and then
closes it.
*/
func Top(k int, r subgroups.Reporter) subgroups.Reporter {
	return &top{k: k, reporter: r}
}

func (t *top) Report(sg *subgroups.Subgroup) error {
	i := len(t.subgroups)
	for i > 0 && t.subgroups[i-1].Quality < sg.Quality {
		i--
	}
	if i >= t.k {
		return nil
	}
	t.subgroups = slices.Insert(t.subgroups, i, sg)
	if len(t.subgroups) > t.k {
		t.subgroups = t.subgroups[:t.k]
	}
	return nil
}

func (t *top) Close() error {
	for _, sg := range t.subgroups {
		if err := t.reporter.Report(sg); err != nil {
			t.reporter.Close()
			return err
		}
	}
	return t.reporter.Close()
}

// byDescendingQuality sorts subgroups by descending quality, keeping the
// order of those with the same quality.
func byDescendingQuality(sgs []*subgroups.Subgroup) {
	slices.SortStableFunc(sgs, func(a, b *subgroups.Subgroup) bool {
		return a.Quality > b.Quality
	})
}
