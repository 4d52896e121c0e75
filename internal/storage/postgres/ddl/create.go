package ddl

import (
	"fmt"
	"strings"

	gddl "cine/internal/ddl"
)

// QuoteIdent quotes a single identifier segment for Postgres, e.g.:
//
//	QuoteIdent(`titles`)     => `"titles"`
//	QuoteIdent(`weird"name`) => `"weird""name"`
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// BuildCreateTableSQL returns a Postgres CREATE TABLE IF NOT EXISTS statement
// for t. Primary-key columns are always rendered NOT NULL.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols := make([]gddl.ColumnDef, len(t.Columns))
	for i, c := range t.Columns {
		if c.PrimaryKey {
			c.Nullable = false
		}
		cols[i] = c
	}
	t.Columns = cols

	s, err := gddl.Render(t, gddl.Style{Quote: QuoteIdent, IfNotExists: true})
	if err != nil {
		return "", fmt.Errorf("postgres %w", err)
	}
	return s, nil
}
