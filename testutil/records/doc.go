// Package records provides a sample record type with its field table and
// deterministic data sets for query engine tests.
package records
