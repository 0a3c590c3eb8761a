package catalog

func fixtureTracks() []Track {
	return []Track{
		{ID: "1", Title: "So What", Artist: "Miles Davis", Genres: []string{"Jazz"}, Duration: 545},
		{ID: "2", Title: "Blue in Green", Artist: "Miles Davis", Genres: []string{"Jazz"}, Duration: 337},
		{ID: "3", Title: "Freddie Freeloader", Artist: "Miles Davis", Genres: []string{"Blues", "Jazz"}, Duration: 589},
		{ID: "4", Title: "Giant Steps", Artist: "John Coltrane", Genres: []string{"Jazz"}, Duration: 286},
		{ID: "5", Title: "Smells Like Teen Spirit", Artist: "Nirvana", Genres: []string{"Rock", "Grunge"}, Duration: 301},
		{ID: "6", Title: "Come as You Are", Artist: "Nirvana", Genres: []string{"Rock"}, Duration: 219},
		{ID: "7", Title: "Late Shift", Artist: "Mike Stiles", Genres: []string{"Jazz Fusion"}, Duration: 240},
		{ID: "8", Title: "Kind of Blue Intro", Artist: "Miles Davis Quintet", Genres: []string{"Jaz"}, Duration: 60},
	}
}

func ids(tracks []Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}
