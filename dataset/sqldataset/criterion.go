package sqldataset

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"

	"github.com/antoniolopezmc/subgroups-sub001/feature"
)

// noValue is the representation of discrete values missing from the
// discreteValues table. No sample can hold it.
const noValue = -1

/*
Criterion represents a feature.Selector on SQL DB-backed
datasets, it is translated to a condition on an SQL SELECT
statement's WHERE clause on the samples table.
*/
type Criterion struct {
	/*
		FeatureColumn is the column name for the feature
		the criterion is applying the restriction to.
	*/
	FeatureColumn string
	/*
		Operator is either "=" or "<>". The semantics are
		the result from reading the criterion as
		FeatureColumn Operator Value, so samples with an
		undefined value never satisfy a criterion.
	*/
	Operator string
	/*
		Value is the integer representation of the discrete
		value compared against.
	*/
	Value int
}

/*
ColumnNameFunc is a function that takes the name of a
feature and returns column name for it or an error if
the name could not be transformed.
*/
type ColumnNameFunc func(string) (string, error)

/*
NewCriterion takes a feature.Selector, a ColumnNameFunc and a map of string
to int containing a dictionary for converting discrete string values into
their integer representations and returns the equivalent Criterion or an
error.

A value missing from the dictionary is represented by a value no sample
holds, so that an equality selector on it matches no samples and an
inequality selector matches all samples with a defined value.
*/
func NewCriterion(s feature.Selector, cnf ColumnNameFunc, dictionary map[string]int) (*Criterion, error) {
	columnName, err := cnf(s.Attribute)
	if err != nil {
		return nil, fmt.Errorf("cannot obtain column name for feature '%s': %v", s.Attribute, err)
	}
	var op string
	switch s.Operator {
	case feature.Equal:
		op = "="
	case feature.NotEqual:
		op = "<>"
	default:
		return nil, fmt.Errorf("unsupported operator '%s' in selector %v", s.Operator, s)
	}
	v, ok := dictionary[s.Value]
	if !ok {
		v = noValue
	}
	return &Criterion{columnName, op, v}, nil
}

/*
Placeholder returns the bind parameter for the i-th (1-based) value of a
statement.
*/
type Placeholder func(i int) string

/*
BuildWhereClause takes a slice of criteria and a Placeholder and returns
a WHERE clause (with a leading space) for them and the values to bind, or
an empty string and nil if there are no criteria.
*/
func BuildWhereClause(criteria []*Criterion, ph Placeholder) (string, []interface{}) {
	if len(criteria) == 0 {
		return "", nil
	}
	conditions := make([]string, len(criteria))
	values := make([]interface{}, len(criteria))
	for i, c := range criteria {
		conditions[i] = fmt.Sprintf(`"%s" %s %s`, c.FeatureColumn, c.Operator, ph(i+1))
		values[i] = c.Value
	}
	return " WHERE " + strings.Join(conditions, " AND "), values
}

/*
BuildInsertStatement takes a table name, its columns, a number of rows and
a Placeholder and returns an INSERT statement for that many rows.
*/
func BuildInsertStatement(table string, columns []string, rows int, ph Placeholder) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`INSERT INTO %s ("%s") VALUES `, table, strings.Join(columns, `", "`)))
	for r := 0; r < rows; r++ {
		if r > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for c := range columns {
			if c > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(ph(r*len(columns) + c + 1))
		}
		buf.WriteString(")")
	}
	return buf.String()
}

/*
BuildSelectStatement takes the discrete and continuous feature columns, a
slice of criteria and a Placeholder and returns a SELECT statement for the
samples satisfying the criteria, in insertion order, and the values to bind.
*/
func BuildSelectStatement(discreteFeatureColumns, continuousFeatureColumns []string, criteria []*Criterion, ph Placeholder) (string, []interface{}) {
	columns := append(append([]string{}, discreteFeatureColumns...), continuousFeatureColumns...)
	where, values := BuildWhereClause(criteria, ph)
	return fmt.Sprintf(`SELECT "%s" FROM samples%s ORDER BY "id"`, strings.Join(columns, `", "`), where), values
}

/*
ScanSamples takes the rows of a statement built with BuildSelectStatement,
the discrete and continuous feature columns and a lambda and calls the
lambda with the index and raw sample of every row until it returns false
or an error. Raw samples map columns to int discrete values or float64
continuous values; undefined values are left out. The rows are closed.
*/
func ScanSamples(rows *sql.Rows, discreteFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		rawSample := make(map[string]interface{})
		discreteValues := make([]sql.NullInt64, len(discreteFeatureColumns))
		continuousValues := make([]sql.NullFloat64, len(continuousFeatureColumns))
		values := make([]interface{}, 0, len(discreteFeatureColumns)+len(continuousFeatureColumns))
		for i := range discreteValues {
			values = append(values, &discreteValues[i])
		}
		for i := range continuousValues {
			values = append(values, &continuousValues[i])
		}
		err := rows.Scan(values...)
		if err != nil {
			return err
		}
		for i, c := range discreteFeatureColumns {
			if discreteValues[i].Valid {
				rawSample[c] = int(discreteValues[i].Int64)
			}
		}
		for i, c := range continuousFeatureColumns {
			if continuousValues[i].Valid {
				rawSample[c] = continuousValues[i].Float64
			}
		}
		ok, err := lambda(j, rawSample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

/*
RawSampleValues takes raw samples and the discrete and continuous feature
columns and returns the values to bind to a statement built with
BuildInsertStatement for those columns.
*/
func RawSampleValues(rawSamples []map[string]interface{}, discreteFeatureColumns, continuousFeatureColumns []string) []interface{} {
	values := make([]interface{}, 0, len(rawSamples)*(len(discreteFeatureColumns)+len(continuousFeatureColumns)))
	for _, rs := range rawSamples {
		for _, c := range discreteFeatureColumns {
			values = append(values, rs[c])
		}
		for _, c := range continuousFeatureColumns {
			values = append(values, rs[c])
		}
	}
	return values
}
