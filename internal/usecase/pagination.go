package usecase

import "math"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50

	// MaxPage keeps (page-1)*limit inside int32 for every accepted limit.
	MaxPage = math.MaxInt32 / MaxPageLimit
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// pageOffset expects page and limit from normalizePage.
func pageOffset(page, limit int) int {
	return (page - 1) * limit
}

func pageBounds(total, page, limit int) (int, int) {
	if page < 1 || limit <= 0 || page-1 > total/limit {
		return total, total
	}
	start := pageOffset(page, limit)
	if start >= total {
		return total, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
