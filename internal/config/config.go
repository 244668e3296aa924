package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// GoogleBooksAPIKey is the optional API key for the Google Books API.
	GoogleBooksAPIKey string
	// LibraryDBFile is the path to the library SQLite database.
	LibraryDBFile string
	// CoversDir is the directory cover images are downloaded into.
	CoversDir string
	// MatchThreshold is the minimum match score for search results.
	MatchThreshold int
	// OverwriteCovers controls whether existing cover files are re-downloaded.
	OverwriteCovers bool
)

// InitConfig initializes the global configuration from viper.
func InitConfig() {
	viper.SetDefault("library.dbfile", "./data/library.db")
	viper.SetDefault("covers.dir", "./data/covers")
	viper.SetDefault("search.threshold", 40)

	GoogleBooksAPIKey = viper.GetString("GoogleBooksAPIKey")
	LibraryDBFile = viper.GetString("library.dbfile")
	CoversDir = viper.GetString("covers.dir")
	MatchThreshold = viper.GetInt("search.threshold")
}

// SetOverwriteCovers sets the OverwriteCovers flag.
func SetOverwriteCovers(overwrite bool) {
	OverwriteCovers = overwrite
}
