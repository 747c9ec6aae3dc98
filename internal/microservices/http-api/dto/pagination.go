package dto

// StoryPagination is the pagination block of story listings.
type StoryPagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalStories int64 `json:"totalStories"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
}

// Pagination is the pagination block of every other listing.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

func NewStoryPagination(page, limit int, total int64) StoryPagination {
	totalPages := TotalPages(total, limit)
	return StoryPagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalStories: total,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := TotalPages(total, limit)
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
