package pgadapter

import (
	"context"
	"os"
	"testing"

	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/dataset/sqldataset"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", placeholder(1))
	assert.Equal(t, "$12", placeholder(12))
}

func TestSampleTableCreateStmt(t *testing.T) {
	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS samples("id" SERIAL PRIMARY KEY, "a1" INTEGER NULL REFERENCES discreteValues(id), "class" INTEGER NULL REFERENCES discreteValues(id), "age" REAL NULL)`,
		sampleTableCreateStmt([]string{"a1", "class"}, []string{"age"}))
	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS samples("id" SERIAL PRIMARY KEY)`,
		sampleTableCreateStmt(nil, nil))
}

func TestStatementsUseNumberedPlaceholders(t *testing.T) {
	assert.Equal(t,
		`INSERT INTO samples ("a1", "age") VALUES ($1, $2), ($3, $4)`,
		sqldataset.BuildInsertStatement("samples", []string{"a1", "age"}, 2, placeholder))
	where, values := sqldataset.BuildWhereClause([]*sqldataset.Criterion{{FeatureColumn: "a1", Operator: "=", Value: 1}, {FeatureColumn: "class", Operator: "<>", Value: 4}}, placeholder)
	assert.Equal(t, ` WHERE "a1" = $1 AND "class" <> $2`, where)
	assert.Equal(t, []interface{}{1, 4}, values)
}

func TestDatasetOverPostgreSQL(t *testing.T) {
	url := os.Getenv("SUBGROUPS_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("SUBGROUPS_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	a, err := New(url)
	require.NoError(t, err)
	defer a.Close()
	db := a.(*adapter).db
	for _, stmt := range []string{`DROP TABLE IF EXISTS samples`, `DROP TABLE IF EXISTS discreteValues`} {
		_, err = db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	features := []feature.Feature{
		feature.NewDiscreteFeature("a1", []string{"a", "b", "c"}),
		feature.NewContinuousFeature("age"),
		feature.NewDiscreteFeature("class", []string{"n", "y"}),
	}
	ds, err := sqldataset.CreateDataset(ctx, a, features)
	require.NoError(t, err)
	n, err := ds.Write(ctx, []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"a1": "a", "age": 31.0, "class": "n"}),
		dataset.NewSample(map[string]interface{}{"a1": "b", "class": "y"}),
		dataset.NewSample(map[string]interface{}{"a1": "c", "age": 22.0, "class": "y"}),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	y, err := ds.SubsetWith(ctx, feature.NewSelector("class", feature.Equal, "y"))
	require.NoError(t, err)
	count, err := y.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	samples, err := y.Samples(ctx)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	v, err := samples[0].ValueFor(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}
