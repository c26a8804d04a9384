package subgroups

import (
	"math"
	"strings"

	"github.com/antoniolopezmc/subgroups-sub001/tree"
	"github.com/pkg/errors"
)

// ErrUndefinedQuality is returned when a quality measure cannot be computed
// on the given counts, usually because a denominator is 0.
var ErrUndefinedQuality = errors.New("undefined quality")

/*
QualityMeasure scores a subgroup from its counts and the counts of the
whole dataset. The higher the score, the more interesting the subgroup.
*/
type QualityMeasure interface {
	Name() string
	Compute(c, totals tree.Counts) (float64, error)
}

type qualityMeasure struct {
	name    string
	compute func(c, totals tree.Counts) (float64, error)
}

func (qm *qualityMeasure) Name() string {
	return qm.name
}

func (qm *qualityMeasure) Compute(c, totals tree.Counts) (float64, error) {
	q, err := qm.compute(c, totals)
	if err != nil {
		return 0, errors.Wrapf(err, "computing %s for %v with totals %v", qm.name, c, totals)
	}
	return q, nil
}

func ratio(num, den int, what string) (float64, error) {
	if den == 0 {
		return 0, errors.Wrap(ErrUndefinedQuality, what+" is 0")
	}
	return float64(num) / float64(den), nil
}

// lift returns tp/n - TP/N
func lift(c, totals tree.Counts) (float64, error) {
	p, err := ratio(c.TP, c.N(), "n")
	if err != nil {
		return 0, err
	}
	p0, err := ratio(totals.TP, totals.N(), "N")
	if err != nil {
		return 0, err
	}
	return p - p0, nil
}

/*
WRAcc returns the weighted relative accuracy measure: n/N * (tp/n - TP/N).
*/
func WRAcc() QualityMeasure {
	return &qualityMeasure{"WRAcc", func(c, totals tree.Counts) (float64, error) {
		l, err := lift(c, totals)
		if err != nil {
			return 0, err
		}
		return float64(c.N()) / float64(totals.N()) * l, nil
	}}
}

/*
BinomialTest returns the binomial test measure: sqrt(n) * (tp/n - TP/N).
*/
func BinomialTest() QualityMeasure {
	return &qualityMeasure{"BinomialTest", func(c, totals tree.Counts) (float64, error) {
		l, err := lift(c, totals)
		if err != nil {
			return 0, err
		}
		return math.Sqrt(float64(c.N())) * l, nil
	}}
}

/*
PiatetskyShapiro returns the Piatetsky-Shapiro measure: n * (tp/n - TP/N).
*/
func PiatetskyShapiro() QualityMeasure {
	return &qualityMeasure{"PiatetskyShapiro", func(c, totals tree.Counts) (float64, error) {
		l, err := lift(c, totals)
		if err != nil {
			return 0, err
		}
		return float64(c.N()) * l, nil
	}}
}

// Support returns the support measure: tp/N.
func Support() QualityMeasure {
	return &qualityMeasure{"Support", func(c, totals tree.Counts) (float64, error) {
		return ratio(c.TP, totals.N(), "N")
	}}
}

// Coverage returns the coverage measure: n/N.
func Coverage() QualityMeasure {
	return &qualityMeasure{"Coverage", func(c, totals tree.Counts) (float64, error) {
		return ratio(c.N(), totals.N(), "N")
	}}
}

// Sensitivity returns the sensitivity measure: tp/TP.
func Sensitivity() QualityMeasure {
	return &qualityMeasure{"Sensitivity", func(c, totals tree.Counts) (float64, error) {
		return ratio(c.TP, totals.TP, "TP")
	}}
}

// PPV returns the positive predictive value (precision) measure: tp/n.
func PPV() QualityMeasure {
	return &qualityMeasure{"PPV", func(c, totals tree.Counts) (float64, error) {
		return ratio(c.TP, c.N(), "n")
	}}
}

var qualityMeasures = []func() QualityMeasure{
	WRAcc,
	BinomialTest,
	PiatetskyShapiro,
	Support,
	Coverage,
	Sensitivity,
	PPV,
}

/*
QualityMeasureByName takes a name and returns the quality measure with
that name, ignoring case, or an error if there is none.
*/
func QualityMeasureByName(name string) (QualityMeasure, error) {
	for _, f := range qualityMeasures {
		qm := f()
		if strings.EqualFold(qm.Name(), name) {
			return qm, nil
		}
	}
	return nil, errors.Errorf("unknown quality measure %q", name)
}

// QualityMeasureNames returns the names of all available quality measures.
func QualityMeasureNames() []string {
	names := make([]string, len(qualityMeasures))
	for i, f := range qualityMeasures {
		names[i] = f().Name()
	}
	return names
}
