/*
Package csv reads datasets from CSV streams and writes them back.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
)

// Undefined is the CSV value for an undefined sample value.
const Undefined = "?"

/*
Writer is an interface for a dataset to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given number
	// of samples and will return the actually written
	// number of samples and an error (if not all samples
	// could be written)
	Write(context.Context, []dataset.Sample) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

/*
DatasetGenerator is a function that takes a slice of samples
and generates a dataset with them.
*/
type DatasetGenerator func([]dataset.Sample) dataset.Dataset

type csvWriter struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream, a slice of features and a
DatasetGenerator and returns a dataset.Dataset built with the generator and
the samples parsed from the reader or an error.

The header or first row of the CSV content is expected to consist of the names
of the features in the given slice, in any order. The rest of the rows should
consist of valid values for all features and/or the '?' string to indicate an
undefined value.
*/
func ReadDataset(reader io.Reader, features []feature.Feature, dg DatasetGenerator) (dataset.Dataset, error) {
	samples := []dataset.Sample{}
	err := ReadDatasetBySample(reader, features, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dg(samples), nil
}

/*
ReadDatasetBySample takes an io.Reader for a CSV stream, a slice of features
and a lambda function on an integer and a dataset.Sample that returns a boolean
value. It parses the samples from the reader and for each it calls the lambda
function with the sample and its index as parameters. If the lambda function
returns true, it will continue processing the next sample, otherwise it will
stop. An error is returned if something goes wrong when reading the stream or
parsing a sample.
*/
func ReadDatasetBySample(reader io.Reader, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) error {
	featuresByName := featureSliceToMap(features)
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns, err := parseFeaturesFromCSVHeader(header, featuresByName)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseSampleFromCSVRow(row, columns)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string, a slice of features and a
DatasetGenerator, opens the file to which the filepath points to and uses
ReadDataset to return a dataset.Dataset or an error read from it. If the
filepath is "" os.Stdin is read instead.
*/
func ReadDatasetFromFilePath(filepath string, features []feature.Feature, dg DatasetGenerator) (dataset.Dataset, error) {
	var ds dataset.Dataset
	err := withFile(filepath, func(f *os.File) error {
		var err error
		ds, err = ReadDataset(f, features, dg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, nil
}

/*
ReadDatasetBySampleFromFilePath works like ReadDatasetBySample on the file
the filepath points to, or on os.Stdin if the filepath is "".
*/
func ReadDatasetBySampleFromFilePath(filepath string, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) error {
	return withFile(filepath, func(f *os.File) error {
		return ReadDatasetBySample(f, features, lambda)
	})
}

func withFile(filepath string, f func(*os.File) error) error {
	if filepath == "" {
		return f(os.Stdin)
	}
	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("reading dataset: %v", err)
	}
	defer file.Close()
	return f(file)
}

/*
NewWriter takes an io.Writer and a slice of feature.Features and
returns a Writer that will write any samples on the io.Writer.
*/
func NewWriter(writer io.Writer, features []feature.Feature) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, len(features))
	for i, f := range features {
		record[i] = f.Name()
	}
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{features: features, w: w}, nil
}

/*
WriteDataset takes a writer, a dataset.Dataset and a slice of features and
dumps to the writer the dataset in CSV format, specifying only the features
in the given slice for the samples. It returns an error if something
went wrong when writing to the writer, or codifying the samples.
*/
func WriteDataset(ctx context.Context, writer io.Writer, ds dataset.Dataset, features []feature.Feature) error {
	cw, err := NewWriter(writer, features)
	if err != nil {
		return err
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, samples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

/*
parseFeaturesFromCSVHeader returns the feature for every column of the
header, or nil for columns that are not features.
*/
func parseFeaturesFromCSVHeader(header []string, features map[string]feature.Feature) ([]feature.Feature, error) {
	columns := make([]feature.Feature, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if seen[name] {
			return nil, fmt.Errorf("parsing header: duplicate column %s", name)
		}
		seen[name] = true
		f, ok := features[name]
		if !ok {
			return nil, fmt.Errorf("parsing header: reference to unknown feature %s", name)
		}
		columns[i] = f
	}
	return columns, nil
}

func parseSampleFromCSVRow(row []string, columns []feature.Feature) (dataset.Sample, error) {
	featureValues := make(map[string]interface{}, len(columns))
	for i, f := range columns {
		v := row[i]
		var value interface{}
		if v != Undefined {
			if _, ok := f.(*feature.ContinuousFeature); ok {
				fv, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("converting %s to float64: %v", v, err)
				}
				value = fv
			} else {
				value = v
			}
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for feature %s: %v", value, value, f.Name(), err)
		}
		featureValues[f.Name()] = value
	}
	return dataset.NewSample(featureValues), nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n, sample := range samples {
		if err := cw.writeSample(ctx, sample); err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(ctx context.Context, sample dataset.Sample) error {
	record := make([]string, len(cw.features))
	for j, f := range cw.features {
		v, err := sample.ValueFor(ctx, f.Name())
		if err != nil {
			return err
		}
		if v == nil {
			record[j] = Undefined
		} else {
			record[j] = fmt.Sprintf("%v", v)
		}
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

func featureSliceToMap(features []feature.Feature) map[string]feature.Feature {
	result := make(map[string]feature.Feature)
	for _, f := range features {
		result[f.Name()] = f
	}
	return result
}
