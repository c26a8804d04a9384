package subgroups

import (
	"context"

	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/antoniolopezmc/subgroups-sub001/tree"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
SDMap holds the configuration of a run of the SDMap algorithm.
*/
type SDMap struct {
	// QualityMeasure scores every mined pattern.
	QualityMeasure QualityMeasure
	// MinimumQuality is the inclusive lower bound a pattern's quality must
	// reach for it to be reported.
	MinimumQuality float64
	// Threshold prunes infrequent selectors both when building the tree
	// and every conditional tree.
	Threshold tree.Threshold
	// Reporter receives the selected subgroups.
	Reporter Reporter
	// Logger receives debug and summary information about runs.
	Logger *zap.Logger
}

// Option configures optional settings of an SDMap.
type Option func(*SDMap)

// WithLogger sets the logger of an SDMap.
func WithLogger(l *zap.Logger) Option {
	return func(sd *SDMap) {
		sd.Logger = l
	}
}

/*
NewSDMap takes a quality measure, a minimum quality, a threshold, a
reporter and options and returns an SDMap. Without a WithLogger option
the SDMap does not log.
*/
func NewSDMap(qm QualityMeasure, minimumQuality float64, th tree.Threshold, r Reporter, opts ...Option) *SDMap {
	sd := &SDMap{
		QualityMeasure: qm,
		MinimumQuality: minimumQuality,
		Threshold:      th,
		Reporter:       r,
		Logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(sd)
	}
	return sd
}

/*
Stats holds the counters of an SDMap run.
*/
type Stats struct {
	// VisitedNodes is the number of patterns mined.
	VisitedNodes int
	// SelectedSubgroups is the number of patterns reported.
	SelectedSubgroups int
	// UnselectedSubgroups is the number of patterns whose quality did not
	// reach the minimum or could not be computed.
	UnselectedSubgroups int
	// TreeNodes is the number of nodes of the tree built from the dataset.
	TreeNodes int
	// FrequentSelectors is the number of selectors kept by the threshold.
	FrequentSelectors int
}

/*
Run takes a context, a dataset, its features and a target, mines the
dataset and reports every subgroup whose quality reaches the minimum.
It returns the stats of the run or an error.

Patterns whose quality is undefined (wrapping ErrUndefinedQuality) are
counted as unselected. Any other error computing qualities, reporting a
subgroup or coming from the context aborts the run.
*/
func (sd *SDMap) Run(ctx context.Context, ds dataset.Dataset, features []feature.Feature, target feature.Target) (*Stats, error) {
	logger := sd.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := descriptive(features, target); err != nil {
		return nil, err
	}
	totals, err := totalCounts(ctx, ds, target)
	if err != nil {
		return nil, err
	}
	fs, err := GenerateFrequentSelectors(ctx, ds, features, target, sd.Threshold)
	if err != nil {
		return nil, err
	}
	logger.Debug("generated frequent selectors", zap.Int("count", len(fs)), zap.Stringer("totals", totals))
	t, err := BuildTree(ctx, ds, features, fs, target)
	if err != nil {
		return nil, err
	}
	if ce := logger.Check(zap.DebugLevel, "built tree"); ce != nil {
		ce.Write(zap.Int("nodes", t.Size()), zap.Bool("singlePath", t.SinglePath()), zap.Strings("paths", t.Paths()))
	}
	stats := &Stats{TreeNodes: t.Size(), FrequentSelectors: len(fs)}
	err = Mine(t, nil, sd.Threshold, totals, HandlerFunc(func(p Pattern, c, totals tree.Counts) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.VisitedNodes++
		q, err := sd.QualityMeasure.Compute(c, totals)
		if err != nil {
			if errors.Is(err, ErrUndefinedQuality) {
				logger.Debug("undefined quality", zap.Stringer("pattern", p), zap.Error(err))
				stats.UnselectedSubgroups++
				return nil
			}
			return err
		}
		if q < sd.MinimumQuality {
			stats.UnselectedSubgroups++
			return nil
		}
		stats.SelectedSubgroups++
		return sd.Reporter.Report(&Subgroup{
			Pattern:        p,
			Target:         target,
			Counts:         c,
			Totals:         totals,
			Quality:        q,
			QualityMeasure: sd.QualityMeasure.Name(),
		})
	}))
	if err != nil {
		return nil, err
	}
	logger.Info("sdmap run completed",
		zap.Int("visitedNodes", stats.VisitedNodes),
		zap.Int("selectedSubgroups", stats.SelectedSubgroups),
		zap.Int("unselectedSubgroups", stats.UnselectedSubgroups),
	)
	return stats, nil
}

func totalCounts(ctx context.Context, ds dataset.Dataset, target feature.Target) (tree.Counts, error) {
	n, err := ds.Count(ctx)
	if err != nil {
		return tree.Counts{}, err
	}
	tp, err := dataset.CountWhere(ctx, ds, target.Selector())
	if err != nil {
		return tree.Counts{}, err
	}
	return tree.Counts{TP: tp, FP: n - tp}, nil
}
