package domain

import "fmt"

// Genres is the fixed vocabulary of genre labels accepted by the server.
// Filter dropdowns and the profile genre picker are built from this list.
var Genres = []string{
	"Fiction",
	"Non-Fiction",
	"Mystery",
	"Romance",
	"Science Fiction",
	"Fantasy",
	"Biography",
	"History",
	"Self-Help",
	"Poetry",
	"Thriller",
	"Horror",
	"Adventure",
	"Other",
}

// ValidGenre reports whether s is part of the genre vocabulary.
func ValidGenre(s string) bool {
	for _, g := range Genres {
		if g == s {
			return true
		}
	}
	return false
}

// ValidateGenres checks a replace-all genre update before any network call.
func ValidateGenres(genres []string) error {
	for _, g := range genres {
		if !ValidGenre(g) {
			return fmt.Errorf("unknown genre %q", g)
		}
	}
	return nil
}
