package sqldataset

import (
	"context"
	"fmt"
	"sync"

	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
)

/*
Dataset is a dataset.Dataset to which samples can be written.

Its Write method takes a context and a slice of samples and adds them
to the dataset, returning the number of samples written and an error
if not all of them could be written.
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
}

// dictionary translates discrete values to and from their representation
// on the discreteValues table. It is shared by a dataset and its subsets.
type dictionary struct {
	lock    sync.RWMutex
	values  map[int]string
	inverse map[string]int
}

type sqlDataset struct {
	db                  Adapter
	features            []feature.Feature
	selectors           []feature.Selector
	criteria            []*Criterion
	featureNamesColumns map[string]string
	columnFeatures      map[string]feature.Feature
	dict                *dictionary
	dfColumns           []string
	cfColumns           []string
}

/*
OpenDataset takes a context, an Adapter to a db backend and a slice of
features and returns a Dataset backed by the given adapter or an error
if no dataset is available through the given adapter.

This function expects the adapter to have the samples and discrete value
tables already created.
*/
func OpenDataset(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (Dataset, error) {
	ss := &sqlDataset{db: dbAdapter, features: features, dict: &dictionary{}}
	err := ss.initFeatureColumns()
	if err != nil {
		return nil, err
	}
	err = ss.loadDictionary(ctx)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

/*
CreateDataset takes a context, an Adapter and a slice of features and
returns a Dataset backed by the given adapter or an error.

This function will ensure that the samples and discrete value tables are
created on the database, and that the discrete value table has all the
declared values for the discrete features on the features slice.
*/
func CreateDataset(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (Dataset, error) {
	ss := &sqlDataset{db: dbAdapter, features: features, dict: &dictionary{}}
	err := ss.initFeatureColumns()
	if err != nil {
		return nil, err
	}
	err = ss.db.CreateDiscreteValuesTable(ctx)
	if err != nil {
		return nil, err
	}
	err = ss.db.CreateSampleTable(ctx, ss.dfColumns, ss.cfColumns)
	if err != nil {
		return nil, err
	}
	err = ss.loadDictionary(ctx)
	if err != nil {
		return nil, err
	}
	var values []string
	for _, f := range ss.features {
		if df, ok := f.(*feature.DiscreteFeature); ok {
			values = append(values, df.AvailableValues()...)
		}
	}
	err = ss.ensureDiscreteValues(ctx, values)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

func (ss *sqlDataset) Count(ctx context.Context) (int, error) {
	return ss.db.CountSamples(ctx, ss.criteria)
}

func (ss *sqlDataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	err := ss.db.IterateOnSamples(ctx, ss.criteria, ss.dfColumns, ss.cfColumns, func(_ int, rs map[string]interface{}) (bool, error) {
		samples = append(samples, &sample{rs, ss})
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (ss *sqlDataset) Selectors(ctx context.Context) ([]feature.Selector, error) {
	return ss.selectors, nil
}

func (ss *sqlDataset) SubsetWith(ctx context.Context, s feature.Selector) (dataset.Dataset, error) {
	if _, ok := ss.columnFeatures[ss.featureNamesColumns[s.Attribute]].(*feature.DiscreteFeature); !ok {
		return nil, fmt.Errorf("subsetting with %v: %s is not a discrete feature of the dataset", s, s.Attribute)
	}
	ss.dict.lock.RLock()
	c, err := NewCriterion(s, ss.db.ColumnName, ss.dict.inverse)
	ss.dict.lock.RUnlock()
	if err != nil {
		return nil, err
	}
	criteria := make([]*Criterion, 0, len(ss.criteria)+1)
	criteria = append(criteria, ss.criteria...)
	criteria = append(criteria, c)
	selectors := make([]feature.Selector, 0, len(ss.selectors)+1)
	selectors = append(selectors, s)
	selectors = append(selectors, ss.selectors...)
	return &sqlDataset{
		db:                  ss.db,
		features:            ss.features,
		selectors:           selectors,
		criteria:            criteria,
		featureNamesColumns: ss.featureNamesColumns,
		columnFeatures:      ss.columnFeatures,
		dict:                ss.dict,
		dfColumns:           ss.dfColumns,
		cfColumns:           ss.cfColumns,
	}, nil
}

func (ss *sqlDataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	var values []string
	for _, s := range samples {
		for _, f := range ss.features {
			if _, ok := f.(*feature.DiscreteFeature); !ok {
				continue
			}
			v, err := s.ValueFor(ctx, f.Name())
			if err != nil {
				return 0, err
			}
			if vs, ok := v.(string); ok {
				values = append(values, vs)
			}
		}
	}
	err := ss.ensureDiscreteValues(ctx, values)
	if err != nil {
		return 0, err
	}
	rawSamples := make([]map[string]interface{}, 0, len(samples))
	for _, s := range samples {
		rs, err := ss.newRawSample(ctx, s)
		if err != nil {
			return 0, err
		}
		rawSamples = append(rawSamples, rs)
	}
	return ss.db.AddSamples(ctx, rawSamples, ss.dfColumns, ss.cfColumns)
}

// ensureDiscreteValues adds the values missing from the dictionary to the
// discreteValues table and reloads it.
func (ss *sqlDataset) ensureDiscreteValues(ctx context.Context, values []string) error {
	ss.dict.lock.RLock()
	var missing []string
	seen := make(map[string]bool)
	for _, v := range values {
		if _, ok := ss.dict.inverse[v]; !ok && !seen[v] {
			missing = append(missing, v)
			seen[v] = true
		}
	}
	ss.dict.lock.RUnlock()
	if len(missing) == 0 {
		return nil
	}
	_, err := ss.db.AddDiscreteValues(ctx, missing)
	if err != nil {
		return err
	}
	return ss.loadDictionary(ctx)
}

func (ss *sqlDataset) loadDictionary(ctx context.Context) error {
	values, err := ss.db.ListDiscreteValues(ctx)
	if err != nil {
		return err
	}
	inverse := make(map[string]int, len(values))
	for k, v := range values {
		inverse[v] = k
	}
	ss.dict.lock.Lock()
	ss.dict.values, ss.dict.inverse = values, inverse
	ss.dict.lock.Unlock()
	return nil
}

func (ss *sqlDataset) newRawSample(ctx context.Context, s dataset.Sample) (map[string]interface{}, error) {
	rs := make(map[string]interface{})
	ss.dict.lock.RLock()
	defer ss.dict.lock.RUnlock()
	for _, f := range ss.features {
		v, err := s.ValueFor(ctx, f.Name())
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if _, ok := f.(*feature.DiscreteFeature); ok {
			vs, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("expected string value for discrete feature %s of sample, got %T", f.Name(), v)
			}
			v = ss.dict.inverse[vs]
		} else if _, ok := v.(float64); !ok {
			return nil, fmt.Errorf("expected float64 value for continuous feature %s of sample, got %T", f.Name(), v)
		}
		rs[ss.featureNamesColumns[f.Name()]] = v
	}
	return rs, nil
}

func (ss *sqlDataset) initFeatureColumns() error {
	ss.columnFeatures = make(map[string]feature.Feature)
	ss.featureNamesColumns = make(map[string]string)
	for _, f := range ss.features {
		column, err := ss.db.ColumnName(f.Name())
		if err != nil {
			return fmt.Errorf("invalid feature %s: %v", f.Name(), err)
		}
		of, ok := ss.columnFeatures[column]
		if ok {
			return fmt.Errorf("%s and %s feature names translate to the same column name %s", f.Name(), of.Name(), column)
		}
		ss.columnFeatures[column] = f
		ss.featureNamesColumns[f.Name()] = column
	}
	for _, f := range ss.features {
		if _, ok := f.(*feature.DiscreteFeature); ok {
			ss.dfColumns = append(ss.dfColumns, ss.featureNamesColumns[f.Name()])
		} else {
			ss.cfColumns = append(ss.cfColumns, ss.featureNamesColumns[f.Name()])
		}
	}
	return nil
}

/*
sample is a dataset.Sample read from a SQL dataset. Its values are
indexed by column, with discrete values in their integer representation.
*/
type sample struct {
	values map[string]interface{}
	ss     *sqlDataset
}

func (s *sample) ValueFor(_ context.Context, attribute string) (interface{}, error) {
	c, ok := s.ss.featureNamesColumns[attribute]
	if !ok {
		return nil, nil
	}
	v, ok := s.values[c]
	if !ok {
		return nil, nil
	}
	if _, ok = s.ss.columnFeatures[c].(*feature.DiscreteFeature); ok {
		iv, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("expected sql representation for the value of %s to be an int, got %T", attribute, v)
		}
		s.ss.dict.lock.RLock()
		v = s.ss.dict.values[iv]
		s.ss.dict.lock.RUnlock()
	}
	return v, nil
}

func (s *sample) String() string {
	return fmt.Sprintf("%v", s.values)
}
