package records

// Layouts of the seven dataset files, in source column order.

var Names = &Layout[Name]{
	Entity: EntityName,
	Fields: []Field[Name]{
		textField("nconst", func(r *Name) *string { return &r.ID }),
		textField("primary_name", func(r *Name) *string { return &r.PrimaryName }),
		optIntField("birth_year", func(r *Name) **int { return &r.BirthYear }),
		optIntField("death_year", func(r *Name) **int { return &r.DeathYear }),
		listField("primary_profession", func(r *Name) *[]string { return &r.PrimaryProfessions }),
		listField("known_for_titles", func(r *Name) *[]string { return &r.KnownForTitles }),
	},
}

var TitleAlternates = &Layout[TitleAlternate]{
	Entity: EntityTitleAlternate,
	Fields: []Field[TitleAlternate]{
		textField("title_id", func(r *TitleAlternate) *string { return &r.TitleID }),
		intField("ordering", func(r *TitleAlternate) *int { return &r.Ordering }),
		textField("title", func(r *TitleAlternate) *string { return &r.Title }),
		optTextField("region", func(r *TitleAlternate) **string { return &r.Region }),
		optTextField("language", func(r *TitleAlternate) **string { return &r.Language }),
		listField("types", func(r *TitleAlternate) *[]string { return &r.Types }),
		optListField("attributes", func(r *TitleAlternate) *[]string { return &r.Attributes }),
		optBoolField("is_original_title", func(r *TitleAlternate) **bool { return &r.IsOriginalTitle }),
	},
}

var TitleCores = &Layout[TitleCore]{
	Entity: EntityTitleCore,
	Fields: []Field[TitleCore]{
		textField("tconst", func(r *TitleCore) *string { return &r.ID }),
		textField("title_type", func(r *TitleCore) *string { return &r.TitleType }),
		textField("primary_title", func(r *TitleCore) *string { return &r.PrimaryTitle }),
		textField("original_title", func(r *TitleCore) *string { return &r.OriginalTitle }),
		boolField("is_adult", func(r *TitleCore) *bool { return &r.IsAdult }),
		optIntField("start_year", func(r *TitleCore) **int { return &r.StartYear }),
		optIntField("end_year", func(r *TitleCore) **int { return &r.EndYear }),
		optIntField("runtime_minutes", func(r *TitleCore) **int { return &r.RuntimeMinutes }),
		listField("genres", func(r *TitleCore) *[]string { return &r.Genres }),
	},
	Keep: func(r *TitleCore, o Options) bool { return o.IncludeAdult || !r.IsAdult },
}

var TitleCrews = &Layout[TitleCrew]{
	Entity: EntityTitleCrew,
	Fields: []Field[TitleCrew]{
		textField("tconst", func(r *TitleCrew) *string { return &r.ID }),
		listField("directors", func(r *TitleCrew) *[]string { return &r.Directors }),
		listField("writers", func(r *TitleCrew) *[]string { return &r.Writers }),
	},
}

var TitleEpisodes = &Layout[TitleEpisode]{
	Entity: EntityTitleEpisode,
	Fields: []Field[TitleEpisode]{
		textField("tconst", func(r *TitleEpisode) *string { return &r.ID }),
		textField("parent", func(r *TitleEpisode) *string { return &r.ParentID }),
		optIntField("season", func(r *TitleEpisode) **int { return &r.Season }),
		optIntField("episode", func(r *TitleEpisode) **int { return &r.Episode }),
	},
}

var TitlePrincipals = &Layout[TitlePrincipal]{
	Entity: EntityTitlePrincipal,
	Fields: []Field[TitlePrincipal]{
		textField("tconst", func(r *TitlePrincipal) *string { return &r.TitleID }),
		intField("ordering", func(r *TitlePrincipal) *int { return &r.Ordering }),
		textField("nconst", func(r *TitlePrincipal) *string { return &r.PersonID }),
		textField("category", func(r *TitlePrincipal) *string { return &r.Category }),
		optTextField("job", func(r *TitlePrincipal) **string { return &r.Job }),
		optTextField("characters", func(r *TitlePrincipal) **string { return &r.Characters }),
	},
}

var TitleRatings = &Layout[TitleRating]{
	Entity: EntityTitleRating,
	Fields: []Field[TitleRating]{
		textField("tconst", func(r *TitleRating) *string { return &r.ID }),
		floatField("average_rating", func(r *TitleRating) *float64 { return &r.AverageRating }),
		intField("num_votes", func(r *TitleRating) *int { return &r.NumVotes }),
	},
}
