package ddl

import (
	"fmt"
	"strings"

	gddl "cine/internal/ddl"
)

// QuoteIdent brackets a SQL Server identifier, escaping closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN brackets every segment of a possibly schema-qualified name.
func QuoteFQN(fqn string) string { return gddl.QuoteFQN(fqn, QuoteIdent) }

// BuildCreateTableSQL returns a T-SQL script creating t unless it exists.
// T-SQL has no CREATE TABLE IF NOT EXISTS, so the statement is guarded:
//
//	IF OBJECT_ID(N'[dbo].[titles]', N'U') IS NULL
//	BEGIN
//	CREATE TABLE [dbo].[titles] (
//	  ...
//	);
//	END;
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	create, err := gddl.Render(t, gddl.Style{Quote: QuoteIdent})
	if err != nil {
		return "", fmt.Errorf("mssql %w", err)
	}
	name := strings.ReplaceAll(QuoteFQN(t.FQN), "'", "''")
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n%s\nEND;", name, create), nil
}
