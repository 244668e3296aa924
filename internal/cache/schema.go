package cache

// Cache table names, one per upstream catalog. All cache tables share
// the same shape: cache_key → JSON payload plus a timestamp.
const (
	GoogleBooksTable = "googlebooks_cache"
	OpenLibraryTable = "openlibrary_cache"
)

// GoogleBooksCacheSchema defines the schema for the Google Books API
// response cache.
const GoogleBooksCacheSchema = `
CREATE TABLE IF NOT EXISTS googlebooks_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_googlebooks_cached_at ON googlebooks_cache(cached_at);
`

// OpenLibraryCacheSchema defines the schema for the OpenLibrary search
// response cache.
const OpenLibraryCacheSchema = `
CREATE TABLE IF NOT EXISTS openlibrary_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_openlibrary_cached_at ON openlibrary_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for initialization.
var AllCacheSchemas = []string{
	GoogleBooksCacheSchema,
	OpenLibraryCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names,
// used to prevent SQL injection when interpolating table names.
var ValidCacheTableNames = map[string]bool{
	GoogleBooksTable: true,
	OpenLibraryTable: true,
}
