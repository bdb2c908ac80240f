package storage

// TitleQuery narrows a title listing. Zero values mean "no filter".
type TitleQuery struct {
	Name     string
	Category string
	Genre    string
	Year     *int
}

// TitleRecord is the writable part of a title. A nil GenreIDs on update
// leaves the current genres untouched.
type TitleRecord struct {
	Name        string
	Year        int
	Description string
	CategoryID  *int64
	GenreIDs    []int64
}
