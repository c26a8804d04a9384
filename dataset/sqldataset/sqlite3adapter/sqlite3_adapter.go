/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database file.
*/
package sqlite3adapter

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/antoniolopezmc/subgroups-sub001/dataset/sqldataset"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

const (
	discreteValueTableCreateStmt = `CREATE TABLE IF NOT EXISTS discreteValues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT UNIQUE NOT NULL)`
	/*
		MaxDiscreteValueInsertionsPerStatement is the maximum number
		of discrete values that are allowed to be added with a single
		insert command with the AddDiscreteValues method of the adapter.
		Trying to add more will result in making more insertion commands
	*/
	MaxDiscreteValueInsertionsPerStatement = 10
	/*
		MaxSampleInsertionsPerStatement is the maximum number
		of samples that are allowed to be added with a single
		insert command with the AddSamples method of the adapter.
		Trying to add more will result in making more insertion commands
	*/
	MaxSampleInsertionsPerStatement = 10
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func placeholder(int) string {
	return "?"
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	return sqldataset.ValidColumnName(featureName)
}

func (a *adapter) CreateDiscreteValuesTable(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, discreteValueTableCreateStmt)
	if err != nil {
		return fmt.Errorf("running discreteValues creation statement: %v", err)
	}
	return nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string) error {
	var createStmtBuf bytes.Buffer
	_, err := a.db.ExecContext(ctx, "PRAGMA foreign_keys=ON")
	if err != nil {
		return err
	}
	createStmtBuf.WriteString("CREATE TABLE IF NOT EXISTS samples(")
	createStmtBuf.WriteString(`"id" INTEGER PRIMARY KEY AUTOINCREMENT`)
	for _, c := range discreteFeatureColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`, "%s" INTEGER NULL REFERENCES discreteValues(id)`, c))
	}
	for _, c := range continuousFeatureColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`, "%s" REAL NULL`, c))
	}
	createStmtBuf.WriteString(")")
	_, err = a.db.ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddDiscreteValues(ctx context.Context, values []string) (int, error) {
	for chunkStart := 0; chunkStart < len(values); chunkStart += MaxDiscreteValueInsertionsPerStatement {
		chunkEnd := chunkStart + MaxDiscreteValueInsertionsPerStatement
		if chunkEnd > len(values) {
			chunkEnd = len(values)
		}
		iv := make([]interface{}, 0, chunkEnd-chunkStart)
		for _, v := range values[chunkStart:chunkEnd] {
			iv = append(iv, v)
		}
		stmt := sqldataset.BuildInsertStatement("discreteValues", []string{"value"}, len(iv), placeholder)
		_, err := a.db.ExecContext(ctx, stmt, iv...)
		if err != nil {
			return chunkStart, fmt.Errorf("inserting %d values: %v", len(iv), err)
		}
	}
	return len(values), nil
}

func (a *adapter) ListDiscreteValues(ctx context.Context) (map[int]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, value FROM discreteValues`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[int]string)
	for rows.Next() {
		var id int
		var value string
		err = rows.Scan(&id, &value)
		if err != nil {
			return nil, err
		}
		result[id] = value
	}
	return result, rows.Err()
}

func (a *adapter) AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteFeatureColumns, continuousFeatureColumns []string) (int, error) {
	if len(rawSamples) == 0 {
		return 0, nil
	}
	columns := append(append([]string{}, discreteFeatureColumns...), continuousFeatureColumns...)
	if len(columns) == 0 {
		return 0, fmt.Errorf("no features to store")
	}
	for chunkStart := 0; chunkStart < len(rawSamples); chunkStart += MaxSampleInsertionsPerStatement {
		chunkEnd := chunkStart + MaxSampleInsertionsPerStatement
		if chunkEnd > len(rawSamples) {
			chunkEnd = len(rawSamples)
		}
		chunk := rawSamples[chunkStart:chunkEnd]
		stmt := sqldataset.BuildInsertStatement("samples", columns, len(chunk), placeholder)
		_, err := a.db.ExecContext(ctx, stmt, sqldataset.RawSampleValues(chunk, discreteFeatureColumns, continuousFeatureColumns)...)
		if err != nil {
			return chunkStart, fmt.Errorf("inserting %d samples: %v", len(chunk), err)
		}
	}
	return len(rawSamples), nil
}

func (a *adapter) IterateOnSamples(ctx context.Context, criteria []*sqldataset.Criterion, discreteFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	query, values := sqldataset.BuildSelectStatement(discreteFeatureColumns, continuousFeatureColumns, criteria, placeholder)
	rows, err := a.db.QueryContext(ctx, query, values...)
	if err != nil {
		return err
	}
	return sqldataset.ScanSamples(rows, discreteFeatureColumns, continuousFeatureColumns, lambda)
}

func (a *adapter) CountSamples(ctx context.Context, criteria []*sqldataset.Criterion) (int, error) {
	where, values := sqldataset.BuildWhereClause(criteria, placeholder)
	var count int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`+where, values...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}
