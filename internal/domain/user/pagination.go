package user

// Page represents one page of search results.
type Page struct {
	Users         []User // Records on the current page
	CurrentPage   int    // Current page index (zero-based)
	Size          int    // Requested page size
	TotalElements int64  // Total number of matching records
	TotalPages    int    // Total number of pages
}

// NewPage creates a Page with calculated total page count.
func NewPage(users []User, page, size int, total int64) *Page {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return &Page{
		Users:         users,
		CurrentPage:   page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
