package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/dafioram/BookLogger/cmd/importcsv"
	"github.com/dafioram/BookLogger/cmd/lookup"
	"github.com/dafioram/BookLogger/internal/cache"
	"github.com/dafioram/BookLogger/internal/config"
)

var (
	runLookup = lookup.Run
	runImport = importcsv.Run
)

// CLI represents the complete command structure for the booklogger application
type CLI struct {
	// Global flags
	Overwrite bool `help:"Re-download cover images even if they already exist"`

	// Library flags
	LibraryDB string `help:"Path to library SQLite database file" default:"./data/library.db"`
	CoversDir string `help:"Directory for downloaded cover images" default:"./data/covers"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Search SearchCmd `cmd:"" help:"Search the book catalogs and rank the results"`
	Import ImportCmd `cmd:"" help:"Bulk-import a reading-list CSV into the library"`
	Cache  CacheCmd  `cmd:"" help:"Manage the API response cache"`
}

// SearchCmd represents the search command
type SearchCmd struct {
	Query       []string `arg:"" help:"Search query (title, author, or a bare ISBN)"`
	ISBN        string   `help:"Known ISBN used to validate candidates"`
	Limit       int      `short:"n" help:"Maximum number of results to show" default:"10"`
	Interactive bool     `short:"i" help:"Pick the result interactively"`
	Save        bool     `help:"Save the chosen result to the library"`
	Covers      bool     `help:"Download the cover image when saving" default:"true"`
}

// ImportCmd represents the CSV import command
type ImportCmd struct {
	Input    string `short:"f" help:"Path to reading-list CSV file"`
	Failures string `help:"Path for the annotated failures CSV" default:"import_failures.csv"`
	Year     int    `help:"Only import rows finished in this year"`
	NoCovers bool   `help:"Skip downloading cover images"`
}

// CacheCmd groups the cache maintenance subcommands
type CacheCmd struct {
	Clear cache.InvalidateCacheCmd `cmd:"" help:"Clear cached API responses for a source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("booklogger"),
		kong.Description("Search book catalogs and track your reading in a local library."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("library.dbfile", "./data/library.db")
	viper.SetDefault("covers.dir", "./data/covers")
	viper.SetDefault("search.threshold", 40)

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("GoogleBooksAPIKey", "GOOGLE_BOOKS_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetOverwriteCovers(cli.Overwrite)

	viper.Set("library.dbfile", cli.LibraryDB)
	viper.Set("covers.dir", cli.CoversDir)

	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)

	config.LibraryDBFile = cli.LibraryDB
	config.CoversDir = cli.CoversDir
}

// Run methods for each command

func (s *SearchCmd) Run() error {
	query := strings.TrimSpace(strings.Join(s.Query, " "))
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	return runLookup(context.Background(), lookup.Params{
		Query:         query,
		ISBN:          s.ISBN,
		Limit:         s.Limit,
		Interactive:   s.Interactive,
		Save:          s.Save,
		DownloadCover: s.Covers,
	})
}

func (i *ImportCmd) Run() error {
	// Read from config if value not provided via flag
	input := i.Input
	if input == "" {
		input = viper.GetString("import.csvfile")
	}

	if input == "" {
		return fmt.Errorf("input CSV file is required (provide via --input flag or import.csvfile in config)")
	}

	return runImport(context.Background(), importcsv.Params{
		Input:          input,
		FailuresOutput: i.Failures,
		Year:           i.Year,
		DownloadCovers: !i.NoCovers,
	})
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("BOOKLOGGER_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
