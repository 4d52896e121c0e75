package ddl

import (
	"fmt"
	"strings"

	gddl "cine/internal/ddl"
)

// QuoteIdent double-quotes a SQLite identifier.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// BuildCreateTableSQL renders an idempotent SQLite CREATE TABLE:
//
//	CREATE TABLE IF NOT EXISTS "titles" (
//	  "id" INTEGER,
//	  "tconst" TEXT NOT NULL,
//	  PRIMARY KEY ("id")
//	);
//
// A single INTEGER primary key column becomes the rowid alias, so it is
// assigned automatically when omitted from an INSERT.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	s, err := gddl.Render(t, gddl.Style{Quote: QuoteIdent, IfNotExists: true})
	if err != nil {
		return "", fmt.Errorf("sqlite %w", err)
	}
	return s, nil
}
