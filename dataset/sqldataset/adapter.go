package sqldataset

import (
	"context"
	"fmt"
	"strings"
)

/*
Adapter is an interface providing the methods
needed to implement a Dataset with a database backend.
*/
type Adapter interface {
	ColumnName(string) (string, error)

	CreateDiscreteValuesTable(context.Context) error
	CreateSampleTable(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string) error

	AddDiscreteValues(context.Context, []string) (int, error)
	ListDiscreteValues(context.Context) (map[int]string, error)

	AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteFeatureColumns, continuousFeatureColumns []string) (int, error)
	IterateOnSamples(ctx context.Context, criteria []*Criterion, discreteFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error
	CountSamples(context.Context, []*Criterion) (int, error)

	Close() error
}

/*
ValidColumnName is the ColumnName implementation shared by the adapters:
it returns the feature name unless it is the reserved "id" or contains
a double quote.
*/
func ValidColumnName(featureName string) (string, error) {
	if featureName == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}
