// Package records decodes raw dataset rows into typed entity records.
//
// Each entity type is described once, as a Layout: an ordered table of fields
// with their column name, codec and persistence accessor. A single generic
// routine decodes any layout and the storage layer inserts any layout, so
// adding a column is a one-line change.
//
// Records are plain values. Optional scalars are pointers (nil when the
// source held the null sentinel). Records own every string they hold and
// keep no reference to the row they were decoded from.
package records

// Name is a person (name.basics).
type Name struct {
	ID                 string // nconst
	PrimaryName        string
	BirthYear          *int
	DeathYear          *int
	PrimaryProfessions []string
	KnownForTitles     []string
}

// TitleAlternate is a localized or alternative title (title.akas).
type TitleAlternate struct {
	TitleID         string
	Ordering        int
	Title           string
	Region          *string
	Language        *string
	Types           []string
	Attributes      []string // nil when absent
	IsOriginalTitle *bool
}

// TitleCore is the primary description of a title (title.basics).
type TitleCore struct {
	ID             string // tconst
	TitleType      string
	PrimaryTitle   string
	OriginalTitle  string
	IsAdult        bool
	StartYear      *int
	EndYear        *int
	RuntimeMinutes *int
	Genres         []string
}

// TitleCrew lists the directors and writers of a title (title.crew).
type TitleCrew struct {
	ID        string
	Directors []string
	Writers   []string
}

// TitleEpisode links an episode to its parent series (title.episode).
type TitleEpisode struct {
	ID       string
	ParentID string
	Season   *int
	Episode  *int
}

// TitlePrincipal is one credited person on a title (title.principals).
type TitlePrincipal struct {
	TitleID    string
	Ordering   int
	PersonID   string
	Category   string
	Job        *string
	Characters *string
}

// TitleRating is the aggregated user rating of a title (title.ratings).
type TitleRating struct {
	ID            string
	AverageRating float64
	NumVotes      int
}
