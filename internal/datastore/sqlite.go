package datastore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const booksSchema = `
CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	google_id TEXT UNIQUE,
	isbn13 TEXT,
	asin TEXT,
	olid TEXT,
	title TEXT NOT NULL,
	subtitle TEXT,
	author TEXT,
	publication_year TEXT,
	cover_url TEXT,
	cover_path TEXT,
	total_pages INTEGER,
	summary TEXT,
	genres TEXT,
	average_rating REAL,
	content_score INTEGER DEFAULT 0
);
`

const userBooksSchema = `
CREATE TABLE IF NOT EXISTS user_books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	book_id INTEGER NOT NULL,
	read_status TEXT DEFAULT 'Unread',
	shelf_status TEXT DEFAULT 'Shelved',
	effective_user_rating REAL,
	is_owned BOOLEAN DEFAULT 0,
	formats_owned TEXT,
	date_added DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY(book_id) REFERENCES books(id)
);
`

const readingLogsSchema = `
CREATE TABLE IF NOT EXISTS reading_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_book_id INTEGER,
	date_finished DATE,
	hours_read REAL,
	format_consumed TEXT,
	is_borrowed BOOLEAN DEFAULT 0,
	is_dnf BOOLEAN DEFAULT 0,
	session_rating REAL,
	FOREIGN KEY(user_book_id) REFERENCES user_books(id)
);
`

// SQLiteStore implements the Store interface over a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLiteStore instance.
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Connect opens the database, enables WAL and creates missing tables.
func (s *SQLiteStore) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable WAL: %w", err)
	}

	for _, schema := range []string{booksSchema, userBooksSchema, readingLogsSchema} {
		if _, err := db.Exec(schema); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// FindBookByISBN13 returns the book with the given ISBN-13, or nil.
func (s *SQLiteStore) FindBookByISBN13(isbn13 string) (*Book, error) {
	return s.findBook("SELECT id, title, total_pages FROM books WHERE isbn13 = ?", isbn13)
}

// FindBookByTitlePrefix returns the first book whose title starts with
// the given prefix, or nil.
func (s *SQLiteStore) FindBookByTitlePrefix(title string) (*Book, error) {
	return s.findBook("SELECT id, title, total_pages FROM books WHERE title LIKE ?", title+"%")
}

func (s *SQLiteStore) findBook(query string, arg any) (*Book, error) {
	var book Book
	var pages sql.NullInt64
	err := s.db.QueryRow(query, arg).Scan(&book.ID, &book.Title, &pages)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up book: %w", err)
	}
	book.TotalPages = int(pages.Int64)
	return &book, nil
}

// InsertBook stores a confirmed book and returns its row id.
func (s *SQLiteStore) InsertBook(book Book) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO books (google_id, isbn13, asin, olid, title, subtitle, author,
			publication_year, cover_url, cover_path, total_pages, summary, genres,
			average_rating, content_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.GoogleID, book.ISBN13, book.ASIN, book.OLID, book.Title, book.Subtitle,
		book.Author, book.PublicationYear, book.CoverURL, book.CoverPath,
		book.TotalPages, book.Summary, book.Genres, book.AverageRating, book.ContentScore,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert book: %w", err)
	}
	return result.LastInsertId()
}

// EnsureUserBook returns the shelf entry for the book, creating it if
// missing. An existing entry gets its rating refreshed when the new
// one carries a rating.
func (s *SQLiteStore) EnsureUserBook(entry UserBook) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM user_books WHERE book_id = ?", entry.BookID).Scan(&id)
	if err == nil {
		if entry.HasRating {
			if _, err := s.db.Exec("UPDATE user_books SET effective_user_rating = ? WHERE id = ?", entry.UserRating, id); err != nil {
				return 0, fmt.Errorf("failed to update rating: %w", err)
			}
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up shelf entry: %w", err)
	}

	var rating any
	if entry.HasRating {
		rating = entry.UserRating
	}
	result, err := s.db.Exec(`
		INSERT INTO user_books (book_id, read_status, shelf_status, is_owned, formats_owned, effective_user_rating)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.BookID, entry.ReadStatus, entry.ShelfStatus, entry.IsOwned, entry.FormatsOwned, rating,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shelf entry: %w", err)
	}
	return result.LastInsertId()
}

// HasReadingLog reports whether a log exists for the shelf entry on
// the given finish date.
func (s *SQLiteStore) HasReadingLog(userBookID int64, dateFinished string) (bool, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM reading_logs WHERE user_book_id = ? AND date_finished = ?",
		userBookID, dateFinished).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up reading log: %w", err)
	}
	return true, nil
}

// InsertReadingLog appends one finished-reading log entry.
func (s *SQLiteStore) InsertReadingLog(log ReadingLog) error {
	var rating any
	if log.HasRating {
		rating = log.SessionRating
	}
	_, err := s.db.Exec(`
		INSERT INTO reading_logs (user_book_id, date_finished, hours_read, format_consumed, is_borrowed, session_rating)
		VALUES (?, ?, ?, ?, ?, ?)`,
		log.UserBookID, log.DateFinished, log.HoursRead, log.FormatConsumed, log.IsBorrowed, rating,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading log: %w", err)
	}
	return nil
}
