// Package sqlindex implements index.Backend on SQLite.
//
// Each property of the Spec becomes a typed column of the entries table
// (p0, p1, ...) with its own secondary index. NOT NULL and UNIQUE flags map
// to column constraints, so SQLite enforces them inside the batch
// transaction.
//
// # Storage Conventions
//
//   - Integers, times and bools are INTEGER columns (bools as 0/1)
//   - Float32 and Float64 are REAL columns
//   - Strings are TEXT, stored NFC-normalized so BINARY collation orders
//     them the same way value.Compare does
//   - UInt64 values above math.MaxInt64 cannot be stored
//
// # Query Compilation
//
// A query.ParseNode compiles to a parameterized WHERE fragment. Literals are
// always bound as parameters, never interpolated. Infinity, Null and NaN literals
// have a fixed truth value for every non-Null row and compile to constant
// predicates. Results are ordered by id COLLATE BINARY ASC.
//
// The database keeps the Spec it was created with in the properties table.
// Reopening a file with a different Spec fails.
package sqlindex
