package ddl

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type, including identity clauses (e.g. BIGINT IDENTITY(1,1))
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g. 0, CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name (optionally schema-qualified, "schema.table")
// and its ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Style captures the dialect differences Render has to know about.
type Style struct {
	// Quote quotes one identifier segment. Nil emits identifiers verbatim.
	Quote func(ident string) string
	// IfNotExists renders CREATE TABLE IF NOT EXISTS.
	IfNotExists bool
}

// QuoteFQN quotes each dot-separated segment of fqn with quote.
func (s Style) QuoteFQN(fqn string) string {
	if s.Quote == nil {
		return fqn
	}
	return QuoteFQN(fqn, s.Quote)
}

func (s Style) quote(ident string) string {
	if s.Quote == nil {
		return ident
	}
	return s.Quote(ident)
}
