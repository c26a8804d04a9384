package dataset

import (
	"context"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
)

const (
	sampleCountThresholdForDatasetImplementation = 1000
)

/*
Dataset represents a collection of samples.

Its SubsetWith method takes a feature.Selector and returns a subset that only
contains samples that satisfy it.

Its Samples method returns the samples it contains, in a stable order.

Its Count method returns the number of samples it contains.

Its Selectors method returns the selectors that were applied to obtain
the dataset through SubsetWith, most recent first.
*/
type Dataset interface {
	SubsetWith(context.Context, feature.Selector) (Dataset, error)
	Samples(context.Context) ([]Sample, error)
	Count(context.Context) (int, error)
	Selectors(context.Context) ([]feature.Selector, error)
}

type memoryIntensiveSubsettingDataset struct {
	samples   []Sample
	selectors []feature.Selector
}

type cpuIntensiveSubsettingDataset struct {
	count     *int
	samples   []Sample
	selectors []feature.Selector
}

/*
New takes a slice of samples and returns a dataset built with them.
The dataset will be a CPU intensive one when the number of samples is
over sampleCountThresholdForDatasetImplementation
*/
func New(samples []Sample) Dataset {
	if len(samples) > sampleCountThresholdForDatasetImplementation {
		return NewCPUIntensive(samples)
	}
	return NewMemoryIntensive(samples)
}

/*
NewMemoryIntensive takes a slice of samples and returns a Dataset
built with them. A memory-intensive dataset is an implementation that
replicates the slice of samples when subsetting to reduce
calculations at the cost of increased memory.
*/
func NewMemoryIntensive(samples []Sample) Dataset {
	return &memoryIntensiveSubsettingDataset{samples, nil}
}

/*
NewCPUIntensive takes a slice of samples and returns a Dataset
built with them. A cpu-intensive dataset is an implementation that
instead of replicating the samples when subsetting, stores the
applying selectors to define the subset and keeps the same
sample slice. Every operation that goes over the samples of the
dataset will apply the selectors of the dataset on all the samples it was built with.
*/
func NewCPUIntensive(samples []Sample) Dataset {
	return &cpuIntensiveSubsettingDataset{nil, samples, nil}
}

func (s *memoryIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	return len(s.samples), nil
}

func (s *cpuIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	if s.count != nil {
		return *s.count, nil
	}
	var length int
	err := s.iterateOnDataset(ctx, func(_ Sample) (bool, error) {
		length++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	s.count = &length
	return length, nil
}

func (s *memoryIntensiveSubsettingDataset) SubsetWith(ctx context.Context, sel feature.Selector) (Dataset, error) {
	var samples []Sample
	for _, sample := range s.samples {
		ok, err := sel.SatisfiedBy(ctx, sample)
		if err != nil {
			return nil, err
		}
		if ok {
			samples = append(samples, sample)
		}
	}
	return &memoryIntensiveSubsettingDataset{samples, prepend(sel, s.selectors)}, nil
}

func (s *cpuIntensiveSubsettingDataset) SubsetWith(ctx context.Context, sel feature.Selector) (Dataset, error) {
	return &cpuIntensiveSubsettingDataset{nil, s.samples, prepend(sel, s.selectors)}, nil
}

func (s *memoryIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	return s.samples, nil
}

func (s *cpuIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	var samples []Sample
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *memoryIntensiveSubsettingDataset) Selectors(ctx context.Context) ([]feature.Selector, error) {
	return s.selectors, nil
}

func (s *cpuIntensiveSubsettingDataset) Selectors(ctx context.Context) ([]feature.Selector, error) {
	return s.selectors, nil
}

func (s *cpuIntensiveSubsettingDataset) iterateOnDataset(ctx context.Context, lambda func(Sample) (bool, error)) error {
	for _, sample := range s.samples {
		skip := false
		for _, sel := range s.selectors {
			ok, err := sel.SatisfiedBy(ctx, sample)
			if err != nil {
				return err
			}
			if !ok {
				skip = true
				break
			}
		}
		if !skip {
			ok, err := lambda(sample)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
	}
	return nil
}

func prepend(sel feature.Selector, selectors []feature.Selector) []feature.Selector {
	result := make([]feature.Selector, 0, len(selectors)+1)
	result = append(result, sel)
	return append(result, selectors...)
}

/*
CountWhere takes a dataset and a slice of selectors and returns the number
of samples in the dataset that satisfy all of them.
*/
func CountWhere(ctx context.Context, d Dataset, selectors ...feature.Selector) (int, error) {
	var err error
	for _, sel := range selectors {
		d, err = d.SubsetWith(ctx, sel)
		if err != nil {
			return 0, err
		}
	}
	return d.Count(ctx)
}
