package tree

import (
	"github.com/pkg/errors"
)

// ErrInconsistentThresholds is returned when the threshold parameters do not
// describe exactly one pruning regime.
var ErrInconsistentThresholds = errors.New("inconsistent threshold parameters")

/*
Threshold is the pruning regime applied to selector counts, both when
building a tree from a dataset and when building every conditional tree.

Its Frequent method takes the counts of a selector and returns whether
the selector must be kept.
*/
type Threshold interface {
	Frequent(Counts) bool
}

/*
SeparateThreshold keeps selectors whose TP and FP counts both reach their
respective inclusive minimums.
*/
type SeparateThreshold struct {
	MinTP int
	MinFP int
}

/*
CombinedThreshold keeps selectors whose number of covered samples
(TP+FP) reaches an inclusive minimum.
*/
type CombinedThreshold struct {
	MinN int
}

// Frequent returns whether c.TP >= MinTP and c.FP >= MinFP.
func (st SeparateThreshold) Frequent(c Counts) bool {
	return c.TP >= st.MinTP && c.FP >= st.MinFP
}

// Frequent returns whether c.N() >= MinN.
func (ct CombinedThreshold) Frequent(c Counts) bool {
	return c.N() >= ct.MinN
}

/*
NewThreshold takes optional minimum TP, minimum FP and minimum N values and
returns the Threshold they describe. Either both minTP and minFP must be
given and minN must not, or only minN must be given. Any other combination,
as well as a negative minimum, results in an error wrapping
ErrInconsistentThresholds.
*/
func NewThreshold(minTP, minFP, minN *int) (Threshold, error) {
	separate := minTP != nil || minFP != nil
	switch {
	case separate && minN != nil:
		return nil, errors.Wrap(ErrInconsistentThresholds, "minimum n cannot be combined with minimum tp or minimum fp")
	case separate && (minTP == nil || minFP == nil):
		return nil, errors.Wrap(ErrInconsistentThresholds, "minimum tp and minimum fp must be given together")
	case separate:
		if *minTP < 0 || *minFP < 0 {
			return nil, errors.Wrapf(ErrInconsistentThresholds, "negative minimum tp (%d) or minimum fp (%d)", *minTP, *minFP)
		}
		return SeparateThreshold{*minTP, *minFP}, nil
	case minN != nil:
		if *minN < 0 {
			return nil, errors.Wrapf(ErrInconsistentThresholds, "negative minimum n (%d)", *minN)
		}
		return CombinedThreshold{*minN}, nil
	}
	return nil, errors.Wrap(ErrInconsistentThresholds, "either minimum tp and minimum fp or minimum n must be given")
}
