package sqldataset

import (
	"fmt"
	"testing"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dollar(i int) string {
	return fmt.Sprintf("$%d", i)
}

func TestNewCriterion(t *testing.T) {
	dict := map[string]int{"a": 1, "b": 2}
	c, err := NewCriterion(feature.NewSelector("a1", feature.Equal, "b"), ValidColumnName, dict)
	require.NoError(t, err)
	assert.Equal(t, &Criterion{"a1", "=", 2}, c)

	c, err = NewCriterion(feature.NewSelector("a1", feature.NotEqual, "z"), ValidColumnName, dict)
	require.NoError(t, err)
	assert.Equal(t, &Criterion{"a1", "<>", noValue}, c)

	_, err = NewCriterion(feature.NewSelector("id", feature.Equal, "a"), ValidColumnName, dict)
	assert.Error(t, err)
	_, err = NewCriterion(feature.NewSelector("a1", feature.Operator("<"), "a"), ValidColumnName, dict)
	assert.Error(t, err)
}

func TestBuildWhereClause(t *testing.T) {
	where, values := BuildWhereClause(nil, dollar)
	assert.Equal(t, "", where)
	assert.Nil(t, values)

	where, values = BuildWhereClause([]*Criterion{{"a1", "=", 2}, {"a2", "<>", 5}}, dollar)
	assert.Equal(t, ` WHERE "a1" = $1 AND "a2" <> $2`, where)
	assert.Equal(t, []interface{}{2, 5}, values)
}

func TestBuildStatements(t *testing.T) {
	assert.Equal(t, `INSERT INTO samples ("a1", "age") VALUES ($1, $2), ($3, $4)`,
		BuildInsertStatement("samples", []string{"a1", "age"}, 2, dollar))
	query, values := BuildSelectStatement([]string{"a1"}, []string{"age"}, []*Criterion{{"a1", "=", 1}}, dollar)
	assert.Equal(t, `SELECT "a1", "age" FROM samples WHERE "a1" = $1 ORDER BY "id"`, query)
	assert.Equal(t, []interface{}{1}, values)
}

func TestRawSampleValues(t *testing.T) {
	values := RawSampleValues([]map[string]interface{}{
		{"a1": 1, "age": 3.5},
		{"a1": 2},
	}, []string{"a1"}, []string{"age"})
	assert.Equal(t, []interface{}{1, 3.5, 2, nil}, values)
}

func TestValidColumnName(t *testing.T) {
	c, err := ValidColumnName("a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", c)
	_, err = ValidColumnName("id")
	assert.Error(t, err)
	_, err = ValidColumnName(`a"1`)
	assert.Error(t, err)
}
