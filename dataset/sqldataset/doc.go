/*
Package sqldataset provides implementations of dataset.Dataset
that use SQL database as backends.

The dataset uses 2 database tables:
  - discreteValues, for storing discrete values
  - samples, for the samples

Samples are stored on the samples table, with
their discrete values as references to values in the
discrete value table and their continuous values as
real numbers. Selectors applied to a dataset with
SubsetWith become conditions of the WHERE clause of
the queries on the samples table.

Database specifics are handled by an Adapter, see the
sqlite3adapter and pgadapter subpackages.
*/
package sqldataset
