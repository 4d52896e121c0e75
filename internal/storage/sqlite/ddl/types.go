// Package ddl holds the SQLite spelling of column types and CREATE TABLE.
package ddl

import "strings"

// MapType maps a logical column type onto a SQLite type affinity.
//
// Booleans are stored as INTEGER 0/1; anything unknown becomes TEXT.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "bool", "boolean":
		return "INTEGER"
	case "float", "double", "real":
		return "REAL"
	case "numeric", "decimal":
		return "NUMERIC"
	default:
		return "TEXT"
	}
}
