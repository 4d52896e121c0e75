// Package all registers every built-in storage backend.
//
// It exists purely for side effects: importing it runs the init functions of
// the concrete backends, which register their dialects with the storage
// package. A binary that needs only some backends imports those packages
// directly instead.
//
//	import _ "cine/internal/storage/all"
package all

import (
	_ "cine/internal/storage/mssql"
	_ "cine/internal/storage/mysql"
	_ "cine/internal/storage/postgres"
	_ "cine/internal/storage/sqlite"
)
