package subgroups

import (
	"fmt"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/antoniolopezmc/subgroups-sub001/tree"
)

/*
Subgroup is a pattern selected by SDMap together with the target it was
mined for, its counts, the counts of the whole dataset and its quality.
*/
type Subgroup struct {
	Pattern        Pattern
	Target         feature.Target
	Counts         tree.Counts
	Totals         tree.Counts
	Quality        float64
	QualityMeasure string
}

func (sg *Subgroup) String() string {
	return fmt.Sprintf("Description: %v, Target: %v ; Quality Measure %s = %v ; tp = %d ; fp = %d ; TP = %d ; FP = %d",
		sg.Pattern, sg.Target, sg.QualityMeasure, sg.Quality, sg.Counts.TP, sg.Counts.FP, sg.Totals.TP, sg.Totals.FP)
}

/*
Reporter is the destination of the subgroups selected by SDMap.

Its Report method takes a subgroup and processes it, returning an error if
it cannot.

Its Close method is called once no more subgroups will be reported, and
flushes and releases whatever the reporter holds.
*/
type Reporter interface {
	Report(*Subgroup) error
	Close() error
}
