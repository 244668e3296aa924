// Package datastore persists confirmed books, user shelf entries and
// reading logs in a local SQLite database. The search engine itself
// never touches this; only callers that confirmed a candidate do.
package datastore

// Store defines the interface for the local library database.
type Store interface {
	// Connect opens the database and creates missing tables.
	Connect() error

	// FindBookByISBN13 returns the book with the given ISBN-13, or nil.
	FindBookByISBN13(isbn13 string) (*Book, error)

	// FindBookByTitlePrefix returns the first book whose title starts
	// with the given prefix, or nil.
	FindBookByTitlePrefix(title string) (*Book, error)

	// InsertBook stores a confirmed book and returns its row id.
	InsertBook(book Book) (int64, error)

	// EnsureUserBook returns the shelf entry for the book, creating it
	// if missing. An existing entry gets its rating updated when the
	// new one carries a rating.
	EnsureUserBook(entry UserBook) (int64, error)

	// HasReadingLog reports whether a log already exists for the shelf
	// entry on the given finish date.
	HasReadingLog(userBookID int64, dateFinished string) (bool, error)

	// InsertReadingLog appends one finished-reading log entry.
	InsertReadingLog(log ReadingLog) error

	// Close closes the database connection.
	Close() error
}
