package records

import (
	"fmt"
	"strings"
)

// Entity enumerates the seven dataset entity types.
type Entity int

const (
	EntityTitleCore Entity = iota
	EntityName
	EntityTitleAlternate
	EntityTitleCrew
	EntityTitleEpisode
	EntityTitleRating
	EntityTitlePrincipal
)

// Meta binds an entity to its source file and destination table.
type Meta struct {
	Entity Entity
	Class  string // record type name, used in reports
	File   string // file name inside the dataset directory
	Table  string
	// Parents lists entities whose ids this one references.
	Parents []Entity
}

// catalog is ordered so every entity follows the entities it references.
var catalog = []Meta{
	{Entity: EntityTitleCore, Class: "TitleCore", File: "title.basics.tsv.gz", Table: "titles"},
	{Entity: EntityName, Class: "Name", File: "name.basics.tsv.gz", Table: "names"},
	{Entity: EntityTitleAlternate, Class: "TitleAlternate", File: "title.akas.tsv.gz", Table: "akas", Parents: []Entity{EntityTitleCore}},
	{Entity: EntityTitleCrew, Class: "TitleCrew", File: "title.crew.tsv.gz", Table: "crew", Parents: []Entity{EntityTitleCore}},
	{Entity: EntityTitleEpisode, Class: "TitleEpisode", File: "title.episode.tsv.gz", Table: "episodes", Parents: []Entity{EntityTitleCore}},
	{Entity: EntityTitleRating, Class: "TitleRating", File: "title.ratings.tsv.gz", Table: "ratings", Parents: []Entity{EntityTitleCore}},
	{Entity: EntityTitlePrincipal, Class: "TitlePrincipal", File: "title.principals.tsv.gz", Table: "principals", Parents: []Entity{EntityTitleCore, EntityName}},
}

// Catalog returns every entity in dependency order.
func Catalog() []Meta {
	out := make([]Meta, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the metadata for e. It panics on values outside the
// enumeration, which only a programming error can produce.
func Lookup(e Entity) Meta {
	if e < 0 || int(e) >= len(catalog) {
		panic(fmt.Sprintf("records: unknown entity %d", int(e)))
	}
	return catalog[e]
}

func (e Entity) String() string {
	if e < 0 || int(e) >= len(catalog) {
		return fmt.Sprintf("Entity(%d)", int(e))
	}
	return catalog[e].Table
}

// ParseEntity accepts a table name ("titles"), a record class name
// ("TitleCore") or a file name ("title.basics.tsv.gz"), case-insensitively.
func ParseEntity(s string) (Entity, error) {
	s = strings.TrimSpace(s)
	for _, m := range catalog {
		if strings.EqualFold(s, m.Table) || strings.EqualFold(s, m.Class) || strings.EqualFold(s, m.File) {
			return m.Entity, nil
		}
	}
	return 0, fmt.Errorf("records: unknown entity %q", s)
}
