package ddl

import (
	"fmt"
	"strings"

	gddl "cine/internal/ddl"
)

// QuoteIdent backtick-quotes a MySQL identifier.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for t
// using the InnoDB engine and utf8mb4 text.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	s, err := gddl.Render(t, gddl.Style{Quote: QuoteIdent, IfNotExists: true})
	if err != nil {
		return "", fmt.Errorf("mysql %w", err)
	}
	return strings.TrimSuffix(s, ";") + " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;", nil
}
