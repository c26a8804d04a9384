package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/dataset/csv"
	"github.com/antoniolopezmc/subgroups-sub001/dataset/mongodataset"
	"github.com/antoniolopezmc/subgroups-sub001/dataset/sqldataset"
	"github.com/antoniolopezmc/subgroups-sub001/dataset/sqldataset/pgadapter"
	"github.com/antoniolopezmc/subgroups-sub001/dataset/sqldataset/sqlite3adapter"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	mgo "gopkg.in/mgo.v2"
)

type backend int

const (
	csvBackend backend = iota
	sqlite3Backend
	postgresqlBackend
	mongodbBackend
)

func (b backend) String() string {
	switch b {
	case sqlite3Backend:
		return "SQLite3"
	case postgresqlBackend:
		return "PostgreSQL"
	case mongodbBackend:
		return "MongoDB"
	}
	return "CSV"
}

/*
backendFor returns the backend a dataset location refers to: PostgreSQL
and MongoDB connection URLs, SQLite3 .db files, and CSV for anything
else, STDIN/STDOUT ("") included.
*/
func backendFor(location string) backend {
	switch {
	case strings.HasPrefix(location, "postgresql://"), strings.HasPrefix(location, "postgres://"):
		return postgresqlBackend
	case strings.HasPrefix(location, "mongodb://"):
		return mongodbBackend
	case strings.HasSuffix(location, ".db"):
		return sqlite3Backend
	}
	return csvBackend
}

type logf func(string, ...interface{})

type datasetWriter interface {
	Write(context.Context, []dataset.Sample) (int, error)
	Flush() error
}

type flushableDatasetWriter struct {
	writer interface {
		Write(context.Context, []dataset.Sample) (int, error)
	}
}

func (fdw *flushableDatasetWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	return fdw.writer.Write(ctx, samples)
}

func (fdw *flushableDatasetWriter) Flush() error {
	return nil
}

func noClose() error {
	return nil
}

func sqlAdapter(b backend, location string) (sqldataset.Adapter, error) {
	if b == postgresqlBackend {
		return pgadapter.New(location)
	}
	return sqlite3adapter.New(location)
}

/*
openDataset opens the dataset at the given location for reading. It returns
the dataset and a function to release any resources held by it. For CSV
locations the whole file is loaded in memory with the given generator.
*/
func openDataset(ctx context.Context, log logf, location string, features []feature.Feature, dg csv.DatasetGenerator) (dataset.Dataset, func() error, error) {
	b := backendFor(location)
	switch b {
	case sqlite3Backend, postgresqlBackend:
		log("Opening dataset over %s adapter for %s...", b, location)
		adapter, err := sqlAdapter(b, location)
		if err != nil {
			return nil, nil, err
		}
		ds, err := sqldataset.OpenDataset(ctx, adapter, features)
		if err != nil {
			adapter.Close()
			return nil, nil, err
		}
		return ds, adapter.Close, nil
	case mongodbBackend:
		log("Opening dataset over MongoDB session for %s...", location)
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to %s: %v", location, err)
		}
		ds, err := mongodataset.Open(ctx, session, features)
		if err != nil {
			session.Close()
			return nil, nil, err
		}
		return ds, func() error { session.Close(); return nil }, nil
	}
	if location == "" {
		log("Reading dataset from STDIN...")
	} else {
		log("Reading dataset from %s...", location)
	}
	ds, err := csv.ReadDatasetFromFilePath(location, features, dg)
	if err != nil {
		return nil, nil, err
	}
	return ds, noClose, nil
}

/*
streamDataset sends every sample in the dataset at the given location on
the returned sample channel. The error channel receives at most one error
and is closed once the sample channel is closed. Cancelling the context
stops the stream.
*/
func streamDataset(ctx context.Context, log logf, location string, features []feature.Feature) (<-chan dataset.Sample, <-chan error, func() error, error) {
	b := backendFor(location)
	switch b {
	case csvBackend:
		log("Streaming CSV dataset from %q...", location)
		sampleStream := make(chan dataset.Sample)
		errStream := make(chan error, 1)
		go func() {
			defer close(errStream)
			defer close(sampleStream)
			err := csv.ReadDatasetBySampleFromFilePath(location, features, func(i int, s dataset.Sample) (bool, error) {
				select {
				case <-ctx.Done():
					return false, nil
				case sampleStream <- s:
				}
				return true, nil
			})
			if err != nil {
				errStream <- err
			}
		}()
		return sampleStream, errStream, noClose, nil
	case mongodbBackend:
		ds, closeFunc, err := openDataset(ctx, log, location, features, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		sampleStream, errStream := ds.(mongodataset.Dataset).Read(ctx)
		return sampleStream, errStream, closeFunc, nil
	}
	ds, closeFunc, err := openDataset(ctx, log, location, features, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		closeFunc()
		return nil, nil, nil, err
	}
	sampleStream := make(chan dataset.Sample)
	errStream := make(chan error)
	go func() {
		defer close(errStream)
		defer close(sampleStream)
		for _, s := range samples {
			select {
			case <-ctx.Done():
				return
			case sampleStream <- s:
			}
		}
	}()
	return sampleStream, errStream, closeFunc, nil
}

/*
createDataset prepares the given location to receive samples, returning a
writer for them and a function to release any resources held by it.
*/
func createDataset(ctx context.Context, log logf, location string, features []feature.Feature) (datasetWriter, func() error, error) {
	b := backendFor(location)
	switch b {
	case sqlite3Backend, postgresqlBackend:
		log("Creating dataset over %s adapter for %s...", b, location)
		adapter, err := sqlAdapter(b, location)
		if err != nil {
			return nil, nil, err
		}
		ds, err := sqldataset.CreateDataset(ctx, adapter, features)
		if err != nil {
			adapter.Close()
			return nil, nil, err
		}
		return &flushableDatasetWriter{ds}, adapter.Close, nil
	case mongodbBackend:
		ds, closeFunc, err := openDataset(ctx, log, location, features, nil)
		if err != nil {
			return nil, nil, err
		}
		return &flushableDatasetWriter{ds.(mongodataset.Dataset)}, closeFunc, nil
	}
	f := os.Stdout
	closeFunc := noClose
	if location == "" {
		log("Using STDOUT to dump output dataset...")
	} else {
		log("Creating %s to dump output dataset...", location)
		var err error
		f, err = os.Create(location)
		if err != nil {
			return nil, nil, err
		}
		closeFunc = f.Close
	}
	w, err := csv.NewWriter(f, features)
	if err != nil {
		closeFunc()
		return nil, nil, err
	}
	return w, closeFunc, nil
}
