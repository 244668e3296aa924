package datastore

// Book is one confirmed bibliographic record in the library. Unlike a
// search candidate it has durable identity and survives the request
// that produced it.
type Book struct {
	ID              int64
	GoogleID        string
	ISBN13          string
	ASIN            string
	OLID            string
	Title           string
	Subtitle        string
	Author          string
	PublicationYear string
	CoverURL        string
	CoverPath       string
	TotalPages      int
	Summary         string
	Genres          string
	AverageRating   float64
	ContentScore    int
}

// UserBook is a shelf entry tying a book to the user's inventory.
type UserBook struct {
	ID           int64
	BookID       int64
	ReadStatus   string
	ShelfStatus  string
	IsOwned      bool
	FormatsOwned string // JSON array of format names
	UserRating   float64
	HasRating    bool
}

// ReadingLog records one finished read of a shelf entry.
type ReadingLog struct {
	UserBookID     int64
	DateFinished   string // YYYY-MM-DD
	HoursRead      float64
	FormatConsumed string
	IsBorrowed     bool
	SessionRating  float64
	HasRating      bool
}
