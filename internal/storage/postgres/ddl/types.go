// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "strings"

// MapType normalizes a logical column type into a Postgres SQL type.
//
//	"int"/"integer"/"bigint" -> BIGINT
//	"bool"/"boolean"         -> BOOLEAN
//	"real"/"float"/"double"  -> DOUBLE PRECISION
//	everything else          -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "bool", "boolean":
		return "BOOLEAN"
	case "real", "float", "double":
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
