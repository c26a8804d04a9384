/*
Package mongodataset stores datasets as documents of a MongoDB collection,
one document per sample, and subsets them with query filters.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Dataset is a dataset.Dataset backed by MongoDB that can also take new
samples and stream the stored ones.
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
}

type mongodataset struct {
	session   *mgo.Session
	features  []feature.Feature
	selectors []feature.Selector
}

const (
	samplesCollectionName = "samples"
)

/*
Open takes a context, a MongoDB database session and a slice of features
and returns a Dataset that works on the samples collection of the default
database for that session, or an error if the features cannot be stored
on it.
*/
func Open(ctx context.Context, session *mgo.Session, features []feature.Feature) (Dataset, error) {
	mds := &mongodataset{session, features, nil}
	err := mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

func (mds *mongodataset) SubsetWith(ctx context.Context, s feature.Selector) (dataset.Dataset, error) {
	if s.Operator != feature.Equal && s.Operator != feature.NotEqual {
		return nil, fmt.Errorf("subsetting with %v: unsupported operator '%s'", s, s.Operator)
	}
	selectors := make([]feature.Selector, 0, len(mds.selectors)+1)
	selectors = append(selectors, s)
	selectors = append(selectors, mds.selectors...)
	return &mongodataset{mds.session, mds.features, selectors}, nil
}

func (mds *mongodataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	count, err := mds.Count(ctx)
	if err == nil {
		samples = make([]dataset.Sample, 0, count)
	}
	sampleChan, errs := mds.Read(ctx)
	for sample := range sampleChan {
		samples = append(samples, sample)
	}
	err = <-errs
	return samples, err
}

func (mds *mongodataset) Count(context.Context) (int, error) {
	return mds.query().Count()
}

func (mds *mongodataset) Selectors(context.Context) ([]feature.Selector, error) {
	return mds.selectors, nil
}

func (mds *mongodataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc := make(bson.M)
		for _, f := range mds.features {
			value, err := s.ValueFor(ctx, f.Name())
			if err != nil {
				return 0, err
			}
			if value != nil {
				doc[f.Name()] = value
			}
		}
		docs = append(docs, doc)
	}
	err := mds.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

func (mds *mongodataset) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		defer close(samples)
		defer close(errs)
		iter := mds.query().Select(bson.M{"_id": 0}).Iter()
		var doc bson.M
		for iter.Next(&doc) {
			select {
			case <-ctx.Done():
				iter.Close()
				errs <- ctx.Err()
				return
			case samples <- dataset.NewSample(doc):
			}
			doc = nil
		}
		if err := iter.Close(); err != nil {
			errs <- err
		}
	}()
	return samples, errs
}

func (mds *mongodataset) ensureIndexes() error {
	for _, f := range mds.features {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
		index := mgo.Index{
			Key:        []string{fName},
			Background: true,
			Sparse:     true,
		}
		err := mds.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (mds *mongodataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(samplesCollectionName)
}

func (mds *mongodataset) query() *mgo.Query {
	return mds.samplesCollection().Find(filter(mds.selectors))
}

/*
filter returns the MongoDB query document for the samples satisfying all
the given selectors. Documents without a field never satisfy a selector
on it.
*/
func filter(selectors []feature.Selector) bson.M {
	if len(selectors) == 0 {
		return bson.M{}
	}
	conditions := make([]bson.M, 0, len(selectors))
	for _, s := range selectors {
		switch s.Operator {
		case feature.Equal:
			conditions = append(conditions, bson.M{s.Attribute: s.Value})
		case feature.NotEqual:
			conditions = append(conditions, bson.M{s.Attribute: bson.M{"$exists": true, "$ne": s.Value}})
		}
	}
	return bson.M{"$and": conditions}
}
